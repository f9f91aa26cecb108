package repository

import (
	"context"
	"time"

	"github.com/Payphone-Digital/tokenauth/internal/model"
	ctxutil "github.com/Payphone-Digital/tokenauth/pkg/context"
	"github.com/Payphone-Digital/tokenauth/pkg/logger"
	"gorm.io/gorm"
)

// TokenRepository is the gorm-backed token store. Fingerprints are only used
// inside queries here and are never logged.
type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Insert persists a new token row.
func (r *TokenRepository) Insert(ctx context.Context, token *model.APIToken) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "InsertToken")

	start := time.Now()
	result := r.db.WithContext(ctx).Omit("User").Create(token)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to insert api token").
			Uint("owner_id", token.UserID).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.DebugWithContext(ctx, "API token inserted").
		Uint("token_id", token.ID).
		Uint("owner_id", token.UserID).
		String("label", token.Name).
		Duration(duration).
		Log()

	return nil
}

// FindByFingerprint loads the token and its owner in a single query. It
// returns gorm.ErrRecordNotFound when no token matches. An owner that no
// longer exists leaves token.User nil.
func (r *TokenRepository) FindByFingerprint(ctx context.Context, fingerprint string) (*model.APIToken, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "FindByFingerprint")

	start := time.Now()
	var token model.APIToken

	result := r.db.WithContext(ctx).
		Joins("User").
		Where("api_tokens.token = ?", fingerprint).
		First(&token)
	if result.Error != nil {
		return nil, result.Error
	}

	if token.User != nil && token.User.ID == 0 {
		token.User = nil
	}

	logger.DebugWithContext(ctx, "API token resolved").
		Uint("token_id", token.ID).
		Bool("owner_present", token.User != nil).
		Duration(time.Since(start)).
		Log()

	return &token, nil
}

// Touch records a successful use of the token.
func (r *TokenRepository) Touch(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.APIToken{}).
		Where("id = ?", id).
		Update("last_used_at", at).Error
}

// Delete removes the token row. Deleting a missing row is not an error.
func (r *TokenRepository) Delete(ctx context.Context, id uint) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "DeleteToken")

	result := r.db.WithContext(ctx).Delete(&model.APIToken{}, id)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete api token").
			Uint("token_id", id).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.DebugWithContext(ctx, "API token deleted").
		Uint("token_id", id).
		Int64("rows_affected", result.RowsAffected).
		Log()

	return nil
}

// DeleteExpiredForOwner removes the owner's tokens that expired strictly
// before the given instant and returns how many were removed.
func (r *TokenRepository) DeleteExpiredForOwner(ctx context.Context, ownerID uint, before time.Time) (int64, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "DeleteExpiredForOwner")

	start := time.Now()
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND expires_at IS NOT NULL AND expires_at < ?", ownerID, before).
		Delete(&model.APIToken{})
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to prune expired api tokens").
			Uint("owner_id", ownerID).
			Duration(duration).
			Err(result.Error).
			Log()
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		logger.InfoWithContext(ctx, "Expired api tokens pruned").
			Uint("owner_id", ownerID).
			Int64("pruned_count", result.RowsAffected).
			Duration(duration).
			Log()
	}

	return result.RowsAffected, nil
}
