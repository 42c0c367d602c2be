package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/stockmasterhq/stockmaster-backend/internal/auth"
	locationsvc "github.com/stockmasterhq/stockmaster-backend/internal/locations"
	movesvc "github.com/stockmasterhq/stockmaster-backend/internal/moves"
	productsvc "github.com/stockmasterhq/stockmaster-backend/internal/products"
	"github.com/stockmasterhq/stockmaster-backend/internal/users"
	pkgAuth "github.com/stockmasterhq/stockmaster-backend/pkg/auth"
	"github.com/stockmasterhq/stockmaster-backend/pkg/config"
	"github.com/stockmasterhq/stockmaster-backend/pkg/enums"
	"github.com/stockmasterhq/stockmaster-backend/pkg/logger"
	"github.com/stockmasterhq/stockmaster-backend/pkg/metrics"
	"github.com/stockmasterhq/stockmaster-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	panic("unimplemented")
}

func (stubAuthService) Profile(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	return &users.UserDTO{ID: userID}, nil
}

func (stubAuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req authsvc.UpdateProfileRequest) (*users.UserDTO, error) {
	panic("unimplemented")
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req authsvc.RegisterRequest) (*authsvc.RegisterResponse, error) {
	panic("unimplemented")
}

func (stubRegisterService) VerifyEmail(ctx context.Context, req authsvc.VerifyRequest) error {
	panic("unimplemented")
}

type stubProductService struct{}

// CreateProduct implements [product.Service].
func (stubProductService) CreateProduct(ctx context.Context, input productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

// UpdateProduct implements [product.Service].
func (stubProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

// DeleteProduct implements [product.Service].
func (stubProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return nil
}

// GetProduct implements [product.Service].
func (stubProductService) GetProduct(ctx context.Context, id uuid.UUID) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

// ListProducts implements [product.Service].
func (stubProductService) ListProducts(ctx context.Context, params pagination.Params, filters productsvc.ListFilters) (*productsvc.ProductListDTO, error) {
	return &productsvc.ProductListDTO{}, nil
}

type stubLocationService struct{}

func (stubLocationService) CreateLocation(ctx context.Context, input locationsvc.CreateLocationInput) (*locationsvc.LocationDTO, error) {
	panic("unimplemented")
}

func (stubLocationService) UpdateLocation(ctx context.Context, id uuid.UUID, input locationsvc.UpdateLocationInput) (*locationsvc.LocationDTO, error) {
	panic("unimplemented")
}

func (stubLocationService) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (stubLocationService) GetLocation(ctx context.Context, id uuid.UUID) (*locationsvc.LocationDTO, error) {
	panic("unimplemented")
}

func (stubLocationService) ListLocations(ctx context.Context, locType *enums.LocationType) ([]locationsvc.LocationDTO, error) {
	return nil, nil
}

type stubMoveService struct {
	validate func(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*movesvc.MoveDTO, error)
}

func (stubMoveService) CreateMove(ctx context.Context, input movesvc.CreateMoveInput) (*movesvc.MoveDTO, error) {
	panic("unimplemented")
}

func (stubMoveService) GetMove(ctx context.Context, id uuid.UUID) (*movesvc.MoveDTO, error) {
	panic("unimplemented")
}

func (stubMoveService) ListMoves(ctx context.Context, params pagination.Params, filters movesvc.ListFilters) (*movesvc.MoveListDTO, error) {
	return &movesvc.MoveListDTO{}, nil
}

func (stubMoveService) SetStatus(ctx context.Context, id uuid.UUID, target enums.MoveStatus) (*movesvc.MoveDTO, error) {
	panic("unimplemented")
}

func (s stubMoveService) ValidateMove(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*movesvc.MoveDTO, error) {
	if s.validate != nil {
		return s.validate(ctx, id, actorID)
	}
	return &movesvc.MoveDTO{ID: id}, nil
}

func (stubMoveService) StockByLocation(ctx context.Context, productID uuid.UUID) (*movesvc.StockByLocationDTO, error) {
	panic("unimplemented")
}

func (stubMoveService) DashboardStats(ctx context.Context) (*movesvc.DashboardCounts, error) {
	return &movesvc.DashboardCounts{TotalProducts: 3}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		metrics.NewHTTPMetrics(),
		stubPinger{},
		nil, // redis client
		stubAuthService{},
		stubRegisterService{},
		stubProductService{},
		stubLocationService{},
		stubMoveService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "router@example.com",
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestProtectedGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestProtectedGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleStaff))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for private ping got %d", resp.Code)
	}
}

func TestValidateMoveRequiresManagerRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	target := "/api/v1/stock-moves/" + uuid.NewString() + "/validate"

	staff := httptest.NewRequest(http.MethodPost, target, nil)
	staff.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleStaff))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, staff)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff validate got %d", resp.Code)
	}

	manager := httptest.NewRequest(http.MethodPost, target, nil)
	manager.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleManager))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, manager)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for manager validate got %d", resp.Code)
	}
}

func TestDeleteProductRequiresManagerRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	target := "/api/v1/products/" + uuid.NewString()

	staff := httptest.NewRequest(http.MethodDelete, target, nil)
	staff.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleStaff))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, staff)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff delete got %d", resp.Code)
	}

	manager := httptest.NewRequest(http.MethodDelete, target, nil)
	manager.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleManager))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, manager)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for manager delete got %d", resp.Code)
	}
}

func TestUserProfileRequiresJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	anon := httptest.NewRequest(http.MethodGet, "/api/v1/users/profile", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, anon)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}

	authed := httptest.NewRequest(http.MethodGet, "/api/v1/users/profile", nil)
	authed.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleStaff))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authed)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for profile got %d", resp.Code)
	}
}

func TestDashboardStatsRequiresJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	anon := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, anon)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}

	authed := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/stats", nil)
	authed.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleStaff))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authed)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for dashboard stats got %d", resp.Code)
	}
}

func TestHealthLiveSetsEnvHeader(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for live probe got %d", resp.Code)
	}
	if env := resp.Header().Get("X-StockMaster-Env"); env != "test" {
		t.Fatalf("expected env header test got %q", env)
	}
}

func TestHealthReadyChecksDependencies(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for ready probe got %d", resp.Code)
	}
}

func TestPublicPingNeedsNoAuth(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/public/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public ping got %d", resp.Code)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for metrics got %d", resp.Code)
	}
}
