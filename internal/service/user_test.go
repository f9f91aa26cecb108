package service

import (
	"context"
	"strings"
	"testing"

	"github.com/Payphone-Digital/tokenauth/internal/dto"
	apperrors "github.com/Payphone-Digital/tokenauth/internal/errors"
	"github.com/Payphone-Digital/tokenauth/internal/model"
	"github.com/Payphone-Digital/tokenauth/internal/repository"
	"github.com/Payphone-Digital/tokenauth/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newUserService(t *testing.T) (*gorm.DB, *UserService) {
	t.Helper()
	db := testutil.NewTestDB(t)
	tokens := NewTokenService(repository.NewTokenRepository(db), testTTL, nil)
	return db, NewUserService(repository.NewUserRepository(db), tokens, bcrypt.MinCost)
}

func registerRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		FirstName:    " Ada ",
		LastName:     "Lovelace",
		Email:        "Ada@Example.com",
		MobileNumber: "+628111",
		Password:     "correct horse",
	}
}

func TestUserService_Register(t *testing.T) {
	db, svc := newUserService(t)
	ctx := context.Background()

	user, secret, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, secret)
	assert.Equal(t, "Ada", user.FirstName)
	assert.Equal(t, "Ada Lovelace", user.Name)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "correct horse", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("correct horse")))

	var token model.APIToken
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&token).Error)
	assert.Equal(t, "registration", token.Name)

	owner, _, err := svc.tokens.Validate(ctx, secret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, owner.ID)
}

func TestUserService_RegisterDuplicates(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.RegisterRequest)
		fields []string
	}{
		{"email", func(r *dto.RegisterRequest) { r.MobileNumber = "+628999" }, []string{"email"}},
		{"mobile", func(r *dto.RegisterRequest) { r.Email = "other@example.com" }, []string{"mobile_number"}},
		{"both", func(r *dto.RegisterRequest) {}, []string{"email", "mobile_number"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, svc := newUserService(t)
			ctx := context.Background()

			_, _, err := svc.Register(ctx, registerRequest())
			require.NoError(t, err)

			req := registerRequest()
			tt.mutate(req)
			_, _, err = svc.Register(ctx, req)
			require.ErrorIs(t, err, apperrors.ErrValidationFailed)

			var verr *apperrors.ValidationError
			require.ErrorAs(t, err, &verr)
			for _, f := range tt.fields {
				assert.Contains(t, verr.Fields, f)
			}
			assert.Len(t, verr.Fields, len(tt.fields))

			var users, tokens int64
			require.NoError(t, db.Model(&model.User{}).Count(&users).Error)
			require.NoError(t, db.Model(&model.APIToken{}).Count(&tokens).Error)
			assert.Equal(t, int64(1), users)
			assert.Equal(t, int64(1), tokens)
		})
	}
}

func TestUserService_Login(t *testing.T) {
	db, svc := newUserService(t)
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	for _, username := range []string{"ada@example.com", "ADA@example.com", "+628111"} {
		user, secret, err := svc.Login(ctx, &dto.LoginRequest{Username: username, Password: "correct horse"})
		require.NoError(t, err, username)
		assert.Equal(t, registered.ID, user.ID)
		assert.NotEmpty(t, secret)
	}

	var loginTokens int64
	require.NoError(t, db.Model(&model.APIToken{}).Where("name = ?", "login").Count(&loginTokens).Error)
	assert.Equal(t, int64(3), loginTokens)
}

func TestUserService_LoginFailuresAreIdentical(t *testing.T) {
	_, svc := newUserService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	_, _, wrongPassword := svc.Login(ctx, &dto.LoginRequest{Username: "ada@example.com", Password: "wrong password"})
	_, _, unknownUser := svc.Login(ctx, &dto.LoginRequest{Username: "nobody@example.com", Password: "correct horse"})

	require.ErrorIs(t, wrongPassword, apperrors.ErrCredentialsRejected)
	require.ErrorIs(t, unknownUser, apperrors.ErrCredentialsRejected)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestUserService_RegisterPasswordByteLimit(t *testing.T) {
	db, svc := newUserService(t)
	ctx := context.Background()

	req := registerRequest()
	req.Password = strings.Repeat("p", 73)
	_, _, err := svc.Register(ctx, req)
	require.ErrorIs(t, err, apperrors.ErrValidationFailed)

	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"The password field must not be greater than 72 bytes."}, verr.Fields["password"])

	var users int64
	require.NoError(t, db.Model(&model.User{}).Count(&users).Error)
	assert.Zero(t, users)

	req.Password = strings.Repeat("p", 72)
	_, _, err = svc.Register(ctx, req)
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, &dto.LoginRequest{Username: req.Email, Password: req.Password})
	assert.NoError(t, err)
}
