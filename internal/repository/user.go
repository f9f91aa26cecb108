package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Payphone-Digital/tokenauth/internal/model"
	ctxutil "github.com/Payphone-Digital/tokenauth/pkg/context"
	"github.com/Payphone-Digital/tokenauth/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByUsername finds a user whose email or mobile number equals username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "GetByUsername")

	start := time.Now()
	var user model.User

	result := r.db.WithContext(ctx).
		Where("email = ?", username).
		Or("mobile_number = ?", username).
		First(&user)
	duration := time.Since(start)

	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			logger.ErrorWithContext(ctx, "Failed to get user by username").
				Duration(duration).
				Err(result.Error).
				Log()
		}
		return nil, result.Error
	}

	logger.DebugWithContext(ctx, "User retrieved by username").
		Uint("user_id", user.ID).
		Duration(duration).
		Log()

	return &user, nil
}

// ExistsByEmail reports whether any user already owns email.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = ?", email)
}

// ExistsByMobileNumber reports whether any user already owns mobile.
func (r *UserRepository) ExistsByMobileNumber(ctx context.Context, mobile string) (bool, error) {
	return r.exists(ctx, "mobile_number = ?", mobile)
}

func (r *UserRepository) exists(ctx context.Context, query string, arg string) (bool, error) {
	var count int64
	// Unscoped: soft-deleted rows still hold the unique index.
	err := r.db.WithContext(ctx).Unscoped().Model(&model.User{}).Where(query, arg).Count(&count).Error
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to check user uniqueness").
			String("query", query).
			Err(err).
			Log()
		return false, err
	}
	return count > 0, nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "Create")

	start := time.Now()
	result := r.db.WithContext(ctx).Create(user)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "User created successfully").
		Uint("user_id", user.ID).
		Duration(duration).
		Log()

	return nil
}
