package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Payphone-Digital/tokenauth/internal/constants"
	apperrors "github.com/Payphone-Digital/tokenauth/internal/errors"
	"github.com/Payphone-Digital/tokenauth/internal/model"
	ctxutil "github.com/Payphone-Digital/tokenauth/pkg/context"
	"github.com/Payphone-Digital/tokenauth/pkg/logger"
	"github.com/Payphone-Digital/tokenauth/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// Identity is the authenticated principal of a request.
type Identity struct {
	User  *model.User
	Token *model.APIToken
}

// TokenValidator resolves a plaintext bearer secret.
type TokenValidator interface {
	Validate(ctx context.Context, presented string) (*model.User, *model.APIToken, error)
}

type TokenAuthMiddleware struct {
	tokens  TokenValidator
	metrics *metrics.Metrics
}

func NewTokenAuthMiddleware(tokens TokenValidator, m *metrics.Metrics) *TokenAuthMiddleware {
	return &TokenAuthMiddleware{
		tokens:  tokens,
		metrics: m,
	}
}

// RequireToken rejects the request with 401 unless it carries a valid,
// unexpired bearer token. Every rejection has the same body.
func (m *TokenAuthMiddleware) RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.WithFunction(c.Request.Context(), "middleware", "RequireToken")

		secret, ok := bearerSecret(c.GetHeader(constants.HeaderAuthorization))
		if !ok {
			m.metrics.Validation(metrics.OutcomeMalformed)
			logger.InfoWithContext(ctx, "Request rejected: no usable bearer credential").
				String("path", c.Request.URL.Path).
				Log()
			abortUnauthenticated(c)
			return
		}

		user, token, err := m.tokens.Validate(ctx, secret)
		if err != nil {
			if apperrors.IsUnauthenticated(err) {
				logger.InfoWithContext(ctx, "Request rejected: bearer credential refused").
					String("path", c.Request.URL.Path).
					String("reason", apperrors.GetDomainError(err).Code).
					Log()
				abortUnauthenticated(c)
				return
			}
			logger.ErrorWithContext(ctx, "Token validation failed").
				String("path", c.Request.URL.Path).
				Err(err).
				Log()
			c.AbortWithStatusJSON(http.StatusInternalServerError, constants.BuildMessageResponse(constants.MsgInternalError))
			return
		}

		identity := &Identity{User: user, Token: token}

		reqCtx := ctxutil.WithUserID(c.Request.Context(), user.ID)
		reqCtx = context.WithValue(reqCtx, constants.CtxKeyIdentity, identity)
		c.Request = c.Request.WithContext(reqCtx)

		c.Set(constants.GinKeyUser, user)
		c.Set(constants.GinKeyAPIToken, token)

		c.Next()
	}
}

// IdentityFrom returns the identity attached by RequireToken.
func IdentityFrom(c *gin.Context) (*Identity, bool) {
	user, okUser := c.Get(constants.GinKeyUser)
	token, okToken := c.Get(constants.GinKeyAPIToken)
	if !okUser || !okToken {
		return IdentityFromContext(c.Request.Context())
	}
	u, _ := user.(*model.User)
	t, _ := token.(*model.APIToken)
	if u == nil || t == nil {
		return nil, false
	}
	return &Identity{User: u, Token: t}, true
}

// IdentityFromContext returns the identity stored on a request context.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(constants.CtxKeyIdentity).(*Identity)
	return identity, ok && identity != nil
}

// bearerSecret extracts the secret from "Bearer <secret>". The scheme is
// matched case-insensitively.
func bearerSecret(header string) (string, bool) {
	scheme, secret, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, constants.AuthSchemeBearer) {
		return "", false
	}
	secret = strings.TrimSpace(secret)
	if secret == "" || strings.ContainsAny(secret, " \t") {
		return "", false
	}
	return secret, true
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, constants.BuildMessageResponse(constants.MsgUnauthenticated))
}
