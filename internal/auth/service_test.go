package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/stockmasterhq/stockmaster-backend/pkg/auth"
	"github.com/stockmasterhq/stockmaster-backend/pkg/config"
	"github.com/stockmasterhq/stockmaster-backend/pkg/db/models"
	"github.com/stockmasterhq/stockmaster-backend/pkg/enums"
	pkgerrors "github.com/stockmasterhq/stockmaster-backend/pkg/errors"
	"github.com/stockmasterhq/stockmaster-backend/pkg/security"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "stockmaster",
		ExpirationMinutes: 30,
	}
}

func TestServiceLoginMintsRoleClaim(t *testing.T) {
	password := "manager-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "manager@example.com",
		PasswordHash: mustHashPassword(t, password),
		FirstName:    "Morgan",
		LastName:     "Reyes",
		Role:         enums.UserRoleManager,
		IsActive:     true,
		IsVerified:   true,
	}
	cfg := testJWTConfig()

	svc, err := NewService(ServiceParams{UserRepo: &stubUserRepo{user: user}, JWTConfig: cfg})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "  Manager@Example.com ",
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.UserRoleManager {
		t.Fatalf("expected manager role claim, got %s", claims.Role)
	}
	if claims.UserID != user.ID {
		t.Fatalf("expected user id claim %s, got %s", user.ID, claims.UserID)
	}
	if resp.User.LastLoginAt == nil {
		t.Fatal("expected last login to be recorded")
	}
}

func TestServiceLoginRejectsBadPassword(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		Email:        "staff@example.com",
		PasswordHash: mustHashPassword(t, "right-password"),
		Role:         enums.UserRoleStaff,
		IsActive:     true,
		IsVerified:   true,
	}

	svc, err := NewService(ServiceParams{UserRepo: &stubUserRepo{user: user}, JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "wrong-password"})
	if err == nil {
		t.Fatal("expected unauthorized")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceLoginRejectsUnknownEmail(t *testing.T) {
	svc, err := NewService(ServiceParams{UserRepo: &stubUserRepo{}, JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	if err == nil {
		t.Fatal("expected unauthorized")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceLoginRejectsUnverified(t *testing.T) {
	password := "staff-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "pending@example.com",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.UserRoleStaff,
		IsActive:     true,
		IsVerified:   false,
	}

	svc, err := NewService(ServiceParams{UserRepo: &stubUserRepo{user: user}, JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: password})
	if err == nil {
		t.Fatal("expected forbidden for unverified account")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestServiceLoginRejectsInactive(t *testing.T) {
	password := "staff-secret"
	user := &models.User{
		ID:           uuid.New(),
		Email:        "inactive@example.com",
		PasswordHash: mustHashPassword(t, password),
		Role:         enums.UserRoleStaff,
		IsActive:     false,
		IsVerified:   true,
	}

	svc, err := NewService(ServiceParams{UserRepo: &stubUserRepo{user: user}, JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: password})
	if err == nil {
		t.Fatal("expected unauthorized for inactive account")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestServiceProfile(t *testing.T) {
	user := &models.User{
		ID:         uuid.New(),
		Email:      "manager@example.com",
		FirstName:  "Morgan",
		LastName:   "Reyes",
		Role:       enums.UserRoleManager,
		IsActive:   true,
		IsVerified: true,
	}

	svc, err := NewService(ServiceParams{UserRepo: &stubUserRepo{user: user}, JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	dto, err := svc.Profile(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if dto.Email != user.Email {
		t.Fatalf("expected email %q, got %q", user.Email, dto.Email)
	}

	if _, err := svc.Profile(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected not found for unknown user")
	}
}

func TestServiceUpdateProfile(t *testing.T) {
	user := &models.User{
		ID:         uuid.New(),
		Email:      "manager@example.com",
		FirstName:  "Morgan",
		LastName:   "Reyes",
		Role:       enums.UserRoleManager,
		IsActive:   true,
		IsVerified: true,
	}

	svc, err := NewService(ServiceParams{UserRepo: &stubUserRepo{user: user}, JWTConfig: testJWTConfig()})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}

	first := "  Jordan "
	dto, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{FirstName: &first})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if dto.FirstName != "Jordan" {
		t.Fatalf("expected trimmed first name, got %q", dto.FirstName)
	}
	if dto.LastName != "Reyes" {
		t.Fatalf("expected last name untouched, got %q", dto.LastName)
	}

	empty := "   "
	if _, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{LastName: &empty}); err == nil {
		t.Fatal("expected validation error for blank last name")
	}

	if _, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileRequest{}); err == nil {
		t.Fatal("expected validation error for empty update")
	}

	if _, err := svc.UpdateProfile(context.Background(), uuid.New(), UpdateProfileRequest{FirstName: &first}); err == nil {
		t.Fatal("expected not found for unknown user")
	}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

type stubUserRepo struct {
	user *models.User
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if s.user != nil && s.user.ID == id {
		s.user.LastLoginAt = &at
	}
	return nil
}

func (s *stubUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if s.user == nil || s.user.ID != id {
		return gorm.ErrRecordNotFound
	}
	if first, ok := updates["first_name"].(string); ok {
		s.user.FirstName = first
	}
	if last, ok := updates["last_name"].(string); ok {
		s.user.LastName = last
	}
	return nil
}
