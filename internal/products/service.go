package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	move "github.com/stockmasterhq/stockmaster-backend/internal/moves"
	pkgdb "github.com/stockmasterhq/stockmaster-backend/pkg/db"
	"github.com/stockmasterhq/stockmaster-backend/pkg/db/models"
	"github.com/stockmasterhq/stockmaster-backend/pkg/enums"
	pkgerrors "github.com/stockmasterhq/stockmaster-backend/pkg/errors"
	"github.com/stockmasterhq/stockmaster-backend/pkg/pagination"
)

// Service exposes catalog management operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, params pagination.Params, filters ListFilters) (*ProductListDTO, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	SKU               string
	Name              string
	Description       *string
	Category          *string
	UnitOfMeasure     string
	CostPrice         decimal.Decimal
	LowStockThreshold *int
	InitialStock      *InitialStockInput
	CreatedBy         *uuid.UUID
}

// InitialStockInput seeds opening stock through a pre-validated adjustment
// move so the ledger stays the only source of stock changes.
type InitialStockInput struct {
	Quantity   int
	LocationID uuid.UUID
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	SKU               *string
	Name              *string
	Description       *string
	Category          *string
	UnitOfMeasure     *string
	CostPrice         *decimal.Decimal
	LowStockThreshold *int
	IsActive          *bool
}

type locationReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Location, error)
	FindAdjustmentSource(ctx context.Context) (*models.Location, error)
}

type service struct {
	repo            *Repository
	dbClient        *pkgdb.Client
	locationRepo    locationReader
	defaultLowStock int
}

// NewService constructs a product service instance.
func NewService(repo *Repository, dbClient *pkgdb.Client, locationRepo locationReader, defaultLowStock int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if locationRepo == nil {
		return nil, fmt.Errorf("location repository required")
	}
	if defaultLowStock <= 0 {
		defaultLowStock = 10
	}
	return &service{
		repo:            repo,
		dbClient:        dbClient,
		locationRepo:    locationRepo,
		defaultLowStock: defaultLowStock,
	}, nil
}

// CreateProduct inserts the product and, when opening stock is provided,
// records it as an already-validated adjustment move in the same transaction.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	sku := strings.TrimSpace(input.SKU)
	name := strings.TrimSpace(input.Name)
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.CostPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost_price cannot be negative")
	}

	threshold := s.defaultLowStock
	if input.LowStockThreshold != nil {
		if *input.LowStockThreshold < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "low_stock_threshold cannot be negative")
		}
		threshold = *input.LowStockThreshold
	}

	unit := strings.TrimSpace(input.UnitOfMeasure)
	if unit == "" {
		unit = "Units"
	}

	var openingMove *openingStock
	if input.InitialStock != nil {
		prepared, err := s.prepareOpeningStock(ctx, *input.InitialStock)
		if err != nil {
			return nil, err
		}
		openingMove = prepared
	}

	p := &models.Product{
		SKU:               sku,
		Name:              name,
		Description:       input.Description,
		Category:          input.Category,
		UnitOfMeasure:     unit,
		CostPrice:         input.CostPrice,
		LowStockThreshold: threshold,
		IsActive:          true,
	}
	if openingMove != nil {
		p.TotalStock = openingMove.quantity
	}

	txErr := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.Create(ctx, p); err != nil {
			if pkgdb.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, fmt.Sprintf("sku %q already exists", sku))
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert product")
		}

		if openingMove != nil {
			now := time.Now().UTC()
			entry := &models.StockMove{
				Reference:         move.NewReference(enums.MoveTypeAdjustment),
				Type:              enums.MoveTypeAdjustment,
				Status:            enums.MoveStatusDone,
				ProductID:         p.ID,
				SourceLocationID:  openingMove.sourceID,
				DestLocationID:    openingMove.destID,
				Quantity:          openingMove.quantity,
				CreatedByUserID:   input.CreatedBy,
				ValidatedByUserID: input.CreatedBy,
				ValidatedAt:       &now,
			}
			if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert opening stock move")
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return NewProductDTO(p), nil
}

type openingStock struct {
	quantity int
	sourceID uuid.UUID
	destID   uuid.UUID
}

func (s *service) prepareOpeningStock(ctx context.Context, input InitialStockInput) (*openingStock, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "initial stock quantity must be positive")
	}

	dest, err := s.locationRepo.FindByID(ctx, input.LocationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "initial stock location not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load initial stock location")
	}
	if dest.Type != enums.LocationTypeInternal {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "initial stock location must be internal")
	}

	source, err := s.locationRepo.FindAdjustmentSource(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "no inventory loss location configured for adjustments")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load adjustment source")
	}

	return &openingStock{
		quantity: input.Quantity,
		sourceID: source.ID,
		destID:   dest.ID,
	}, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if err := applyUpdateToProduct(p, input); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		if pkgdb.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, fmt.Sprintf("sku %q already exists", p.SKU))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return NewProductDTO(updated), nil
}

func applyUpdateToProduct(p *models.Product, input UpdateProductInput) error {
	if input.SKU != nil {
		sku := strings.TrimSpace(*input.SKU)
		if sku == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "sku cannot be empty")
		}
		p.SKU = sku
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		p.Name = name
	}
	if input.Description != nil {
		p.Description = input.Description
	}
	if input.Category != nil {
		p.Category = input.Category
	}
	if input.UnitOfMeasure != nil {
		unit := strings.TrimSpace(*input.UnitOfMeasure)
		if unit == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "unit_of_measure cannot be empty")
		}
		p.UnitOfMeasure = unit
	}
	if input.CostPrice != nil {
		if input.CostPrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "cost_price cannot be negative")
		}
		p.CostPrice = *input.CostPrice
	}
	if input.LowStockThreshold != nil {
		if *input.LowStockThreshold < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "low_stock_threshold cannot be negative")
		}
		p.LowStockThreshold = *input.LowStockThreshold
	}
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}
	return nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	referenced, err := s.repo.CountMovesReferencing(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count moves for product")
	}
	if referenced > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "product is referenced by stock moves")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return NewProductDTO(p), nil
}

func (s *service) ListProducts(ctx context.Context, params pagination.Params, filters ListFilters) (*ProductListDTO, error) {
	result, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return &ProductListDTO{
		Products:   NewProductDTOs(result.Products),
		NextCursor: result.NextCursor,
	}, nil
}
