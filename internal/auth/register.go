package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/stockmasterhq/stockmaster-backend/internal/users"
	"github.com/stockmasterhq/stockmaster-backend/pkg/config"
	"github.com/stockmasterhq/stockmaster-backend/pkg/db"
	"github.com/stockmasterhq/stockmaster-backend/pkg/enums"
	pkgerrors "github.com/stockmasterhq/stockmaster-backend/pkg/errors"
	"github.com/stockmasterhq/stockmaster-backend/pkg/logger"
	"github.com/stockmasterhq/stockmaster-backend/pkg/security"
)

const minPasswordLength = 8

// RegisterService handles account onboarding and email verification.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	VerifyEmail(ctx context.Context, req VerifyRequest) error
}

type otpStore interface {
	StoreOTP(ctx context.Context, email, code string, ttl time.Duration) error
	GetOTP(ctx context.Context, email string) (string, error)
	DeleteOTP(ctx context.Context, email string) error
	OTPAttemptsKey(email string) string
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             *db.Client
	OTPStore       otpStore
	PasswordConfig config.PasswordConfig
	OTPConfig      config.OTPConfig
	Logger         *logger.Logger
}

type registerService struct {
	db          *db.Client
	otp         otpStore
	passwordCfg config.PasswordConfig
	otpCfg      config.OTPConfig
	logg        *logger.Logger
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client required")
	}
	if params.OTPStore == nil {
		return nil, fmt.Errorf("otp store required")
	}
	return &registerService{
		db:          params.DB,
		otp:         params.OTPStore,
		passwordCfg: params.PasswordConfig,
		otpCfg:      params.OTPConfig,
		logg:        params.Logger,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first and last name are required")
	}
	if len(req.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	role := enums.UserRoleStaff
	if req.Role != nil {
		if !req.Role.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
		}
		role = *req.Role
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *users.UserDTO
	txErr := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			FirstName:    strings.TrimSpace(req.FirstName),
			LastName:     strings.TrimSpace(req.LastName),
			Role:         role,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}
		created = users.FromModel(user)
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if err := s.issueOTP(ctx, email); err != nil {
		return nil, err
	}

	return &RegisterResponse{User: created}, nil
}

func (s *registerService) issueOTP(ctx context.Context, email string) error {
	code, err := security.GenerateOTP(s.otpCfg.Length)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate otp")
	}
	if err := s.otp.StoreOTP(ctx, email, code, s.otpCfg.TTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store otp")
	}
	// Delivery is handled out of band; surfaced in logs until a mailer lands.
	if s.logg != nil {
		s.logg.Info(ctx, fmt.Sprintf("verification code issued for %s", email))
	}
	return nil
}

func (s *registerService) VerifyEmail(ctx context.Context, req VerifyRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	code := strings.TrimSpace(req.Code)
	if email == "" || code == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email and code are required")
	}

	attempts, err := s.otp.IncrWithTTL(ctx, s.otp.OTPAttemptsKey(email), s.otpCfg.TTL)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "track verification attempts")
	}
	if s.otpCfg.MaxAttempts > 0 && attempts > int64(s.otpCfg.MaxAttempts) {
		return pkgerrors.New(pkgerrors.CodeRateLimit, "too many verification attempts")
	}

	stored, err := s.otp.GetOTP(ctx, email)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return pkgerrors.New(pkgerrors.CodeValidation, "verification code expired or not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load otp")
	}
	if stored != code {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid verification code")
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		user, err := userRepo.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
		}
		if err := userRepo.MarkVerified(ctx, user.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark verified")
		}
		if err := s.otp.DeleteOTP(ctx, email); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear otp")
		}
		return nil
	})
}
