package product

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stockmasterhq/stockmaster-backend/pkg/db"
	"github.com/stockmasterhq/stockmaster-backend/pkg/db/models"
	"github.com/stockmasterhq/stockmaster-backend/pkg/enums"
	pkgerrors "github.com/stockmasterhq/stockmaster-backend/pkg/errors"
	"github.com/stockmasterhq/stockmaster-backend/pkg/pagination"
)

type productFixture struct {
	svc       Service
	db        *gorm.DB
	warehouse models.Location
	loss      models.Location
}

type gormLocationReader struct {
	db *gorm.DB
}

func (r gormLocationReader) FindByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	var l models.Location
	if err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r gormLocationReader) FindAdjustmentSource(ctx context.Context) (*models.Location, error) {
	var l models.Location
	err := r.db.WithContext(ctx).
		Where("type = ?", enums.LocationTypeInventoryLoss).
		Order("created_at ASC").
		First(&l).
		Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()
	dsn := "file:products_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}, &models.Location{}, &models.StockMove{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	fixture := &productFixture{db: conn}

	fixture.warehouse = models.Location{Name: "Main Warehouse", Type: enums.LocationTypeInternal}
	if err := conn.Create(&fixture.warehouse).Error; err != nil {
		t.Fatalf("seed warehouse: %v", err)
	}
	fixture.loss = models.Location{Name: "Inventory Loss", Type: enums.LocationTypeInventoryLoss}
	if err := conn.Create(&fixture.loss).Error; err != nil {
		t.Fatalf("seed inventory loss: %v", err)
	}

	svc, err := NewService(NewRepository(conn), db.NewFromConn(conn), gormLocationReader{db: conn}, 10)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	fixture.svc = svc
	return fixture
}

func TestCreateProductDefaults(t *testing.T) {
	t.Parallel()
	f := newProductFixture(t)
	ctx := context.Background()

	dto, err := f.svc.CreateProduct(ctx, CreateProductInput{
		SKU:       "  MAT-STEEL-001 ",
		Name:      " Steel Rod ",
		CostPrice: decimal.NewFromFloat(12.50),
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if dto.SKU != "MAT-STEEL-001" {
		t.Fatalf("expected trimmed sku, got %q", dto.SKU)
	}
	if dto.Name != "Steel Rod" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
	if dto.UnitOfMeasure != "Units" {
		t.Fatalf("expected default unit, got %q", dto.UnitOfMeasure)
	}
	if dto.LowStockThreshold != 10 {
		t.Fatalf("expected default threshold 10, got %d", dto.LowStockThreshold)
	}
	if dto.TotalStock != 0 {
		t.Fatalf("expected zero opening stock, got %d", dto.TotalStock)
	}
	if !dto.IsLowStock {
		t.Fatal("expected zero stock to read as low stock")
	}
	if !dto.IsActive {
		t.Fatal("expected new product to be active")
	}
}

func TestCreateProductValidation(t *testing.T) {
	t.Parallel()
	f := newProductFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{"missing sku", CreateProductInput{Name: "Widget"}},
		{"missing name", CreateProductInput{SKU: "SKU-1"}},
		{"negative cost", CreateProductInput{SKU: "SKU-1", Name: "Widget", CostPrice: decimal.NewFromInt(-1)}},
		{"negative threshold", CreateProductInput{SKU: "SKU-1", Name: "Widget", LowStockThreshold: intPtr(-1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateProduct(ctx, tc.input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation code, got %v", err)
			}
		})
	}
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	t.Parallel()
	f := newProductFixture(t)
	ctx := context.Background()

	input := CreateProductInput{SKU: "FUR-CHAIR-101", Name: "Office Chair"}
	if _, err := f.svc.CreateProduct(ctx, input); err != nil {
		t.Fatalf("create product: %v", err)
	}

	input.Name = "Another Chair"
	_, err := f.svc.CreateProduct(ctx, input)
	if err == nil {
		t.Fatal("expected duplicate sku conflict")
	}
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code, got %v", err)
	}
}

func TestCreateProductWithInitialStock(t *testing.T) {
	t.Parallel()
	f := newProductFixture(t)
	ctx := context.Background()

	creator := uuid.New()
	dto, err := f.svc.CreateProduct(ctx, CreateProductInput{
		SKU:       "MAT-STEEL-001",
		Name:      "Steel Rod",
		CreatedBy: &creator,
		InitialStock: &InitialStockInput{
			Quantity:   25,
			LocationID: f.warehouse.ID,
		},
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if dto.TotalStock != 25 {
		t.Fatalf("expected opening stock 25, got %d", dto.TotalStock)
	}

	var entry models.StockMove
	if err := f.db.First(&entry, "product_id = ?", dto.ID).Error; err != nil {
		t.Fatalf("load opening move: %v", err)
	}
	if entry.Type != enums.MoveTypeAdjustment {
		t.Fatalf("expected adjustment move, got %s", entry.Type)
	}
	if entry.Status != enums.MoveStatusDone {
		t.Fatalf("expected done status, got %s", entry.Status)
	}
	if entry.SourceLocationID != f.loss.ID {
		t.Fatal("expected inventory loss as source")
	}
	if entry.DestLocationID != f.warehouse.ID {
		t.Fatal("expected warehouse as destination")
	}
	if entry.Quantity != 25 {
		t.Fatalf("expected quantity 25, got %d", entry.Quantity)
	}
	if entry.ValidatedAt == nil {
		t.Fatal("expected opening move to carry validated_at")
	}
	if entry.ValidatedByUserID == nil || *entry.ValidatedByUserID != creator {
		t.Fatal("expected creator recorded as validator")
	}
}

func TestCreateProductInitialStockRejectsExternalLocation(t *testing.T) {
	t.Parallel()
	f := newProductFixture(t)
	ctx := context.Background()

	vendor := models.Location{Name: "Generic Vendor", Type: enums.LocationTypeVendor}
	if err := f.db.Create(&vendor).Error; err != nil {
		t.Fatalf("seed vendor: %v", err)
	}

	_, err := f.svc.CreateProduct(ctx, CreateProductInput{
		SKU:  "MAT-STEEL-001",
		Name: "Steel Rod",
		InitialStock: &InitialStockInput{
			Quantity:   5,
			LocationID: vendor.ID,
		},
	})
	if err == nil {
		t.Fatal("expected rejection for external location")
	}
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}

	var count int64
	if err := f.db.Model(&models.Product{}).Count(&count).Error; err != nil {
		t.Fatalf("count products: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no product rows, got %d", count)
	}
}

func TestCreateProductInitialStockRequiresLossLocation(t *testing.T) {
	t.Parallel()
	f := newProductFixture(t)
	ctx := context.Background()

	if err := f.db.Delete(&models.Location{}, "id = ?", f.loss.ID).Error; err != nil {
		t.Fatalf("remove loss location: %v", err)
	}

	_, err := f.svc.CreateProduct(ctx, CreateProductInput{
		SKU:  "MAT-STEEL-001",
		Name: "Steel Rod",
		InitialStock: &InitialStockInput{
			Quantity:   5,
			LocationID: f.warehouse.ID,
		},
	})
	if err == nil {
		t.Fatal("expected error without inventory loss location")
	}
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestUpdateProductPartial(t *testing.T) {
	t.Parallel()
	f := newProductFixture(t)
	ctx := context.Background()

	dto, err := f.svc.CreateProduct(ctx, CreateProductInput{SKU: "SKU-1", Name: "Widget"})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	price := decimal.NewFromFloat(9.99)
	updated, err := f.svc.UpdateProduct(ctx, dto.ID, UpdateProductInput{
		Name:              strPtr(" Widget Pro "),
		CostPrice:         &price,
		LowStockThreshold: intPtr(3),
	})
	if err != nil {
		t.Fatalf("update product: %v", err)
	}
	if updated.Name != "Widget Pro" {
		t.Fatalf("expected updated name, got %q", updated.Name)
	}
	if !updated.CostPrice.Equal(price) {
		t.Fatalf("expected cost price %s, got %s", price, updated.CostPrice)
	}
	if updated.LowStockThreshold != 3 {
		t.Fatalf("expected threshold 3, got %d", updated.LowStockThreshold)
	}
	if updated.SKU != "SKU-1" {
		t.Fatalf("sku should be untouched, got %q", updated.SKU)
	}
}

func TestUpdateProductNotFound(t *testing.T) {
	t.Parallel()
	f := newProductFixture(t)

	_, err := f.svc.UpdateProduct(context.Background(), uuid.New(), UpdateProductInput{Name: strPtr("x")})
	if err == nil {
		t.Fatal("expected not found")
	}
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", err)
	}
}

func TestDeleteProductGuardedByLedger(t *testing.T) {
	t.Parallel()
	f := newProductFixture(t)
	ctx := context.Background()

	dto, err := f.svc.CreateProduct(ctx, CreateProductInput{
		SKU:  "SKU-1",
		Name: "Widget",
		InitialStock: &InitialStockInput{
			Quantity:   1,
			LocationID: f.warehouse.ID,
		},
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	err = f.svc.DeleteProduct(ctx, dto.ID)
	if err == nil {
		t.Fatal("expected conflict for referenced product")
	}
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code, got %v", err)
	}

	plain, err := f.svc.CreateProduct(ctx, CreateProductInput{SKU: "SKU-2", Name: "Gadget"})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if err := f.svc.DeleteProduct(ctx, plain.ID); err != nil {
		t.Fatalf("delete unreferenced product: %v", err)
	}
	if _, err := f.svc.GetProduct(ctx, plain.ID); err == nil {
		t.Fatal("expected deleted product to be gone")
	}
}

func TestListProductsFilters(t *testing.T) {
	t.Parallel()
	f := newProductFixture(t)
	ctx := context.Background()

	furniture := "Furniture"
	seed := []CreateProductInput{
		{SKU: "MAT-STEEL-001", Name: "Steel Rod", Category: strPtr("Raw Materials")},
		{SKU: "FUR-CHAIR-101", Name: "Office Chair", Category: &furniture},
		{SKU: "FUR-DESK-102", Name: "Standing Desk", Category: &furniture, InitialStock: &InitialStockInput{Quantity: 50, LocationID: f.warehouse.ID}},
	}
	for _, input := range seed {
		if _, err := f.svc.CreateProduct(ctx, input); err != nil {
			t.Fatalf("seed %s: %v", input.SKU, err)
		}
	}

	byCategory, err := f.svc.ListProducts(ctx, pagination.Params{Limit: 10}, ListFilters{Category: &furniture})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(byCategory.Products) != 2 {
		t.Fatalf("expected 2 furniture products, got %d", len(byCategory.Products))
	}

	bySearch, err := f.svc.ListProducts(ctx, pagination.Params{Limit: 10}, ListFilters{Query: "steel"})
	if err != nil {
		t.Fatalf("list by search: %v", err)
	}
	if len(bySearch.Products) != 1 || bySearch.Products[0].SKU != "MAT-STEEL-001" {
		t.Fatalf("expected steel rod match, got %+v", bySearch.Products)
	}

	lowStock, err := f.svc.ListProducts(ctx, pagination.Params{Limit: 10}, ListFilters{LowStockOnly: true})
	if err != nil {
		t.Fatalf("list low stock: %v", err)
	}
	if len(lowStock.Products) != 2 {
		t.Fatalf("expected 2 low stock products, got %d", len(lowStock.Products))
	}
	for _, p := range lowStock.Products {
		if p.SKU == "FUR-DESK-102" {
			t.Fatal("stocked desk should not appear in low stock list")
		}
	}
}

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }
