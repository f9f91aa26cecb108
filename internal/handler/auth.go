package handler

import (
	"net/http"

	"github.com/Payphone-Digital/tokenauth/internal/constants"
	"github.com/Payphone-Digital/tokenauth/internal/dto"
	"github.com/Payphone-Digital/tokenauth/internal/middleware"
	"github.com/Payphone-Digital/tokenauth/internal/service"
	ctxutil "github.com/Payphone-Digital/tokenauth/pkg/context"
	"github.com/Payphone-Digital/tokenauth/pkg/logger"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userService  *service.UserService
	tokenService *service.TokenService
}

func NewAuthHandler(userService *service.UserService, tokenService *service.TokenService) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		tokenService: tokenService,
	}
}

// Register creates an account and returns it with a fresh token.
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Register")

	var req dto.RegisterRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	user, token, err := h.userService.Register(ctx, &req)
	if err != nil {
		logger.WarnWithContext(ctx, "Registration failed").
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	logger.LogAuth(user.ID, "register", true)

	c.JSON(http.StatusCreated, dto.AuthResponse{
		User:  dto.NewUserResponse(user),
		Token: token,
	})
}

// Login exchanges credentials for a new token.
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Login")

	var req dto.LoginRequest
	if !bindJSON(ctx, c, &req) {
		return
	}

	user, token, err := h.userService.Login(ctx, &req)
	if err != nil {
		logger.WarnWithContext(ctx, "Login failed").
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	logger.LogAuth(user.ID, "login", true)

	c.JSON(http.StatusOK, dto.AuthResponse{
		User:  dto.NewUserResponse(user),
		Token: token,
	})
}

// Logout revokes the token that authenticated this request. Other tokens
// of the same user stay valid.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Logout")

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildMessageResponse(constants.MsgUnauthenticated))
		return
	}

	if err := h.tokenService.Revoke(ctx, identity.Token); err != nil {
		logger.ErrorWithContext(ctx, "Failed to revoke token").
			Uint("token_id", identity.Token.ID).
			Err(err).
			Log()
		respondError(c, err)
		return
	}

	logger.LogAuth(identity.User.ID, "logout", true)

	c.JSON(http.StatusOK, dto.MessageResponse{Message: constants.MsgLoggedOut})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildMessageResponse(constants.MsgUnauthenticated))
		return
	}

	c.JSON(http.StatusOK, dto.MeResponse{User: dto.NewUserResponse(identity.User)})
}
