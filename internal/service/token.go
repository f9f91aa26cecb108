package service

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/Payphone-Digital/tokenauth/internal/errors"
	"github.com/Payphone-Digital/tokenauth/internal/model"
	ctxutil "github.com/Payphone-Digital/tokenauth/pkg/context"
	"github.com/Payphone-Digital/tokenauth/pkg/logger"
	"github.com/Payphone-Digital/tokenauth/pkg/metrics"
	"gorm.io/gorm"
)

// TokenStore persists API tokens. FindByFingerprint must return
// gorm.ErrRecordNotFound for an unknown fingerprint and leave User nil when
// the owner is gone.
type TokenStore interface {
	Insert(ctx context.Context, token *model.APIToken) error
	FindByFingerprint(ctx context.Context, fingerprint string) (*model.APIToken, error)
	Touch(ctx context.Context, id uint, at time.Time) error
	Delete(ctx context.Context, id uint) error
	DeleteExpiredForOwner(ctx context.Context, ownerID uint, before time.Time) (int64, error)
}

// TokenService issues, validates and revokes opaque bearer tokens.
type TokenService struct {
	store   TokenStore
	ttl     time.Duration
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewTokenService(store TokenStore, ttl time.Duration, m *metrics.Metrics) *TokenService {
	return &TokenService{
		store:   store,
		ttl:     ttl,
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Issue prunes the user's expired tokens, then creates a new one labelled
// label. The returned plaintext is the only copy of the secret.
func (s *TokenService) Issue(ctx context.Context, user *model.User, label string) (string, *model.APIToken, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "IssueToken")
	now := s.now()

	pruned, err := s.store.DeleteExpiredForOwner(ctx, user.ID, now)
	if err != nil {
		return "", nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	s.metrics.TokensPruned(pruned)

	secret, err := GenerateSecret()
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to generate token secret").
			Uint("owner_id", user.ID).
			Err(err).
			Log()
		return "", nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	expiresAt := now.Add(s.ttl)
	token := &model.APIToken{
		UserID:      user.ID,
		Name:        label,
		Fingerprint: Fingerprint(secret),
		LastUsedAt:  &now,
		ExpiresAt:   &expiresAt,
	}

	if err := s.store.Insert(ctx, token); err != nil {
		return "", nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	s.metrics.TokenIssued(label)

	logger.InfoWithContext(ctx, "API token issued").
		Uint("owner_id", user.ID).
		Uint("token_id", token.ID).
		String("label", label).
		Int64("pruned_count", pruned).
		Time("expires_at", expiresAt).
		Log()

	return secret, token, nil
}

// Validate resolves a presented secret to its owner and token. Every
// rejection is one of the unauthenticated domain errors; only a failing
// lookup yields ErrInternal.
func (s *TokenService) Validate(ctx context.Context, presented string) (*model.User, *model.APIToken, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "ValidateToken")

	if presented == "" {
		s.metrics.Validation(metrics.OutcomeMissing)
		return nil, nil, apperrors.ErrMissingCredential
	}

	token, err := s.store.FindByFingerprint(ctx, Fingerprint(presented))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.Validation(metrics.OutcomeInvalid)
			return nil, nil, apperrors.ErrInvalidCredential
		}
		logger.ErrorWithContext(ctx, "Failed to look up api token").
			Err(err).
			Log()
		s.metrics.Validation(metrics.OutcomeError)
		return nil, nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	now := s.now()
	if token.IsExpired(now) {
		logger.InfoWithContext(ctx, "Expired api token presented").
			Uint("token_id", token.ID).
			Uint("owner_id", token.UserID).
			Log()
		s.metrics.Validation(metrics.OutcomeExpired)
		return nil, nil, apperrors.ErrTokenExpired
	}

	if err := s.store.Touch(ctx, token.ID, now); err != nil {
		logger.WarnWithContext(ctx, "Failed to record api token use").
			Uint("token_id", token.ID).
			Err(err).
			Log()
	} else {
		token.LastUsedAt = &now
	}

	if token.User == nil {
		logger.ErrorWithContext(ctx, "API token references a missing user").
			Uint("token_id", token.ID).
			Uint("owner_id", token.UserID).
			Log()
		s.metrics.Validation(metrics.OutcomeOrphaned)
		return nil, nil, apperrors.ErrOrphanedToken
	}

	s.metrics.Validation(metrics.OutcomeValid)
	return token.User, token, nil
}

// Revoke deletes token. Revoking a token that is already gone succeeds.
func (s *TokenService) Revoke(ctx context.Context, token *model.APIToken) error {
	ctx = ctxutil.WithFunction(ctx, "service", "RevokeToken")

	if err := s.store.Delete(ctx, token.ID); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}
	s.metrics.TokenRevoked()

	logger.InfoWithContext(ctx, "API token revoked").
		Uint("token_id", token.ID).
		Uint("owner_id", token.UserID).
		Log()

	return nil
}
