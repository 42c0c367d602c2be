package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	move "github.com/stockmasterhq/stockmaster-backend/internal/moves"
	"github.com/stockmasterhq/stockmaster-backend/pkg/config"
	"github.com/stockmasterhq/stockmaster-backend/pkg/db"
	"github.com/stockmasterhq/stockmaster-backend/pkg/db/models"
	"github.com/stockmasterhq/stockmaster-backend/pkg/enums"
	"github.com/stockmasterhq/stockmaster-backend/pkg/logger"
	"github.com/stockmasterhq/stockmaster-backend/pkg/security"
)

// Seeds the baseline locations, a manager account and a couple of demo
// products so a fresh environment is usable right away. Re-running is safe:
// existing rows are left untouched.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	if cfg.App.IsProd() {
		logg.Error(ctx, "seeding is not allowed in prod", fmt.Errorf("env %q", cfg.App.Env))
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := run(ctx, cfg, logg, dbClient.DB()); err != nil {
		logg.Error(ctx, "seeding failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "seeding complete")
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger, conn *gorm.DB) error {
	var errs []error

	locations := []models.Location{
		{Name: "Main Warehouse", Type: enums.LocationTypeInternal},
		{Name: "Generic Vendor", Type: enums.LocationTypeVendor},
		{Name: "Local Customer", Type: enums.LocationTypeCustomer},
		{Name: "Inventory Loss", Type: enums.LocationTypeInventoryLoss},
	}
	for i := range locations {
		if err := firstOrCreateLocation(ctx, conn, &locations[i]); err != nil {
			errs = append(errs, fmt.Errorf("seed location %q: %w", locations[i].Name, err))
		}
	}

	if err := seedManager(ctx, cfg, logg, conn); err != nil {
		errs = append(errs, err)
	}

	products := []models.Product{
		{SKU: "MAT-STEEL-001", Name: "Steel Rod", Category: strPtr("Raw Materials"), UnitOfMeasure: "kg", CostPrice: decimal.NewFromFloat(2.50), LowStockThreshold: 50},
		{SKU: "FUR-CHAIR-101", Name: "Office Chair", Category: strPtr("Furniture"), UnitOfMeasure: "Units", CostPrice: decimal.NewFromFloat(45.00), LowStockThreshold: 5},
	}
	for i := range products {
		if err := firstOrCreateProduct(ctx, conn, &products[i]); err != nil {
			errs = append(errs, fmt.Errorf("seed product %q: %w", products[i].SKU, err))
		}
	}

	if err := seedDraftMoves(ctx, conn, locations, products); err != nil {
		errs = append(errs, err)
	}

	return multierr.Combine(errs...)
}

// seedDraftMoves leaves a couple of pending receipts so the dashboard has
// something to show. Skipped once any ledger entry exists.
func seedDraftMoves(ctx context.Context, conn *gorm.DB, locations []models.Location, products []models.Product) error {
	var count int64
	if err := conn.WithContext(ctx).Model(&models.StockMove{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count moves: %w", err)
	}
	if count > 0 {
		return nil
	}

	var vendor, warehouse *models.Location
	for i := range locations {
		switch locations[i].Type {
		case enums.LocationTypeVendor:
			vendor = &locations[i]
		case enums.LocationTypeInternal:
			warehouse = &locations[i]
		}
	}
	if vendor == nil || warehouse == nil {
		return fmt.Errorf("seed moves: vendor or warehouse location missing")
	}

	for i := range products {
		entry := models.StockMove{
			Reference:        move.NewReference(enums.MoveTypeReceipt),
			Type:             enums.MoveTypeReceipt,
			Status:           enums.MoveStatusDraft,
			ProductID:        products[i].ID,
			SourceLocationID: vendor.ID,
			DestLocationID:   warehouse.ID,
			Quantity:         25,
		}
		if err := conn.WithContext(ctx).Create(&entry).Error; err != nil {
			return fmt.Errorf("seed move for %q: %w", products[i].SKU, err)
		}
	}
	return nil
}

func seedManager(ctx context.Context, cfg *config.Config, logg *logger.Logger, conn *gorm.DB) error {
	email := os.Getenv("STOCKMASTER_SEED_MANAGER_EMAIL")
	if email == "" {
		email = "manager@stockmaster.local"
	}
	password := os.Getenv("STOCKMASTER_SEED_MANAGER_PASSWORD")
	if password == "" {
		password = "changeme-now"
		logg.Warn(ctx, "seeding manager with the default password")
	}

	var existing models.User
	err := conn.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup manager: %w", err)
	}

	hash, err := security.HashPassword(password, cfg.Password)
	if err != nil {
		return fmt.Errorf("hash manager password: %w", err)
	}
	user := models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Default",
		LastName:     "Manager",
		Role:         enums.UserRoleManager,
		IsActive:     true,
		IsVerified:   true,
	}
	if err := conn.WithContext(ctx).Create(&user).Error; err != nil {
		return fmt.Errorf("create manager: %w", err)
	}
	return nil
}

func firstOrCreateLocation(ctx context.Context, conn *gorm.DB, loc *models.Location) error {
	loc.IsActive = true
	return conn.WithContext(ctx).
		Where("name = ?", loc.Name).
		FirstOrCreate(loc).Error
}

func firstOrCreateProduct(ctx context.Context, conn *gorm.DB, p *models.Product) error {
	p.IsActive = true
	return conn.WithContext(ctx).
		Where("sku = ?", p.SKU).
		FirstOrCreate(p).Error
}

func strPtr(v string) *string {
	return &v
}
