package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/Payphone-Digital/tokenauth/internal/constants"
	"github.com/Payphone-Digital/tokenauth/internal/dto"
	apperrors "github.com/Payphone-Digital/tokenauth/internal/errors"
	"github.com/Payphone-Digital/tokenauth/internal/model"
	"github.com/Payphone-Digital/tokenauth/internal/repository"
	ctxutil "github.com/Payphone-Digital/tokenauth/pkg/context"
	"github.com/Payphone-Digital/tokenauth/pkg/logger"
	"github.com/Payphone-Digital/tokenauth/pkg/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	msgEmailTaken  = "The email has already been taken."
	msgMobileTaken = "The mobile number has already been taken."
)

type UserService struct {
	repoUser   *repository.UserRepository
	tokens     *TokenService
	bcryptCost int

	dummyOnce sync.Once
	dummyHash []byte
}

func NewUserService(repo *repository.UserRepository, tokens *TokenService, bcryptCost int) *UserService {
	return &UserService{
		repoUser:   repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Register creates the account and issues its first token.
func (s *UserService) Register(ctx context.Context, req *dto.RegisterRequest) (*model.User, string, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Register")

	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	email := normalizeEmail(req.Email)
	mobile := strings.TrimSpace(req.MobileNumber)

	fields, err := s.checkUnique(ctx, email, mobile)
	if err != nil {
		return nil, "", apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if len(req.Password) > constants.MaxPasswordBytes {
		fields.Add("password", validation.DefaultMessage("password", "max_bytes", strconv.Itoa(constants.MaxPasswordBytes)))
	}
	if len(fields) > 0 {
		logger.InfoWithContext(ctx, "Registration rejected").
			Any("fields", fieldNames(fields)).
			Log()
		return nil, "", apperrors.NewValidationError(fields)
	}

	hashedPassword, err := s.hashPassword(req.Password)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to hash password").
			Err(err).
			Log()
		return nil, "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	user := &model.User{
		FirstName:    firstName,
		LastName:     lastName,
		Name:         strings.TrimSpace(firstName + " " + lastName),
		Email:        email,
		MobileNumber: mobile,
		Password:     hashedPassword,
	}

	if err := s.repoUser.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race against a concurrent registration.
			if fields, checkErr := s.checkUnique(ctx, email, mobile); checkErr == nil && len(fields) > 0 {
				return nil, "", apperrors.NewValidationError(fields)
			}
		}
		return nil, "", apperrors.WrapError(apperrors.ErrInternal, err)
	}

	secret, _, err := s.tokens.Issue(ctx, user, constants.TokenLabelRegistration)
	if err != nil {
		return nil, "", err
	}

	logger.InfoWithContext(ctx, "User registered").
		Uint("user_id", user.ID).
		Log()

	return user, secret, nil
}

// Login authenticates by email or mobile number and issues a new token.
// Unknown usernames and wrong passwords fail identically.
func (s *UserService) Login(ctx context.Context, req *dto.LoginRequest) (*model.User, string, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "Login")

	username := strings.TrimSpace(req.Username)
	if strings.Contains(username, "@") {
		username = normalizeEmail(username)
	}

	user, err := s.repoUser.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperrors.WrapError(apperrors.ErrInternal, err)
		}
		// Spend the same bcrypt work as a real comparison.
		_ = bcrypt.CompareHashAndPassword(s.dummyPasswordHash(), []byte(req.Password))
		logger.InfoWithContext(ctx, "Login failed").
			String("reason", "unknown_username").
			Log()
		return nil, "", apperrors.ErrCredentialsRejected
	}

	if !s.checkPassword(user.Password, req.Password) {
		logger.InfoWithContext(ctx, "Login failed").
			Uint("user_id", user.ID).
			String("reason", "password_mismatch").
			Log()
		return nil, "", apperrors.ErrCredentialsRejected
	}

	secret, _, err := s.tokens.Issue(ctx, user, constants.TokenLabelLogin)
	if err != nil {
		return nil, "", err
	}

	logger.InfoWithContext(ctx, "User logged in").
		Uint("user_id", user.ID).
		Log()

	return user, secret, nil
}

func (s *UserService) checkUnique(ctx context.Context, email, mobile string) (apperrors.FieldErrors, error) {
	fields := apperrors.FieldErrors{}

	taken, err := s.repoUser.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		fields.Add("email", msgEmailTaken)
	}

	taken, err = s.repoUser.ExistsByMobileNumber(ctx, mobile)
	if err != nil {
		return nil, err
	}
	if taken {
		fields.Add("mobile_number", msgMobileTaken)
	}

	return fields, nil
}

// hashPassword hashes password using bcrypt
func (s *UserService) hashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedPassword), nil
}

// checkPassword verifies password against hash
func (s *UserService) checkPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

func (s *UserService) dummyPasswordHash() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), s.bcryptCost)
		if err != nil {
			hash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func fieldNames(fields apperrors.FieldErrors) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	return names
}
