package move

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockmasterhq/stockmaster-backend/pkg/db"
	"github.com/stockmasterhq/stockmaster-backend/pkg/db/models"
	"github.com/stockmasterhq/stockmaster-backend/pkg/enums"
	pkgerrors "github.com/stockmasterhq/stockmaster-backend/pkg/errors"
	"github.com/stockmasterhq/stockmaster-backend/pkg/metrics"
	"github.com/stockmasterhq/stockmaster-backend/pkg/pagination"
)

// Service exposes the stock move ledger operations.
type Service interface {
	CreateMove(ctx context.Context, input CreateMoveInput) (*MoveDTO, error)
	GetMove(ctx context.Context, id uuid.UUID) (*MoveDTO, error)
	ListMoves(ctx context.Context, params pagination.Params, filters ListFilters) (*MoveListDTO, error)
	SetStatus(ctx context.Context, id uuid.UUID, target enums.MoveStatus) (*MoveDTO, error)
	ValidateMove(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*MoveDTO, error)
	StockByLocation(ctx context.Context, productID uuid.UUID) (*StockByLocationDTO, error)
	DashboardStats(ctx context.Context) (*DashboardCounts, error)
}

// CreateMoveInput holds the validated payload to append a ledger entry.
type CreateMoveInput struct {
	Type             enums.MoveType
	ProductID        uuid.UUID
	SourceLocationID uuid.UUID
	DestLocationID   uuid.UUID
	Quantity         int
	Notes            *string
	ScheduledAt      *time.Time
	CreatedBy        *uuid.UUID
}

type productReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type locationReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Location, error)
}

type service struct {
	repo         *Repository
	dbClient     *db.Client
	productRepo  productReader
	locationRepo locationReader
	ledger       *metrics.LedgerMetrics
}

// NewService constructs a move service instance.
func NewService(repo *Repository, dbClient *db.Client, productRepo productReader, locationRepo locationReader, ledger *metrics.LedgerMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("move repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if locationRepo == nil {
		return nil, fmt.Errorf("location repository required")
	}
	return &service{
		repo:         repo,
		dbClient:     dbClient,
		productRepo:  productRepo,
		locationRepo: locationRepo,
		ledger:       ledger,
	}, nil
}

// CreateMove appends a draft entry to the ledger. Creating a move never
// touches stock; only validation does.
func (s *service) CreateMove(ctx context.Context, input CreateMoveInput) (*MoveDTO, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid move type %q", input.Type))
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidMove, "quantity must be positive")
	}
	if input.SourceLocationID == input.DestLocationID {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidMove, "source and destination must differ")
	}

	if _, err := s.productRepo.FindByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	src, err := s.locationRepo.FindByID(ctx, input.SourceLocationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "source location not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load source location")
	}
	dst, err := s.locationRepo.FindByID(ctx, input.DestLocationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "destination location not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load destination location")
	}

	if err := validateEndpoints(input.Type, src, dst); err != nil {
		return nil, err
	}

	m := &models.StockMove{
		Reference:        NewReference(input.Type),
		Type:             input.Type,
		Status:           enums.MoveStatusDraft,
		ProductID:        input.ProductID,
		SourceLocationID: input.SourceLocationID,
		DestLocationID:   input.DestLocationID,
		Quantity:         input.Quantity,
		Notes:            input.Notes,
		ScheduledAt:      input.ScheduledAt,
		CreatedByUserID:  input.CreatedBy,
	}

	created, err := s.repo.Create(ctx, m)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert stock move")
	}
	created.SourceLocation = src
	created.DestLocation = dst
	return NewMoveDTO(created), nil
}

func (s *service) GetMove(ctx context.Context, id uuid.UUID) (*MoveDTO, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock move not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock move")
	}
	return NewMoveDTO(m), nil
}

func (s *service) ListMoves(ctx context.Context, params pagination.Params, filters ListFilters) (*MoveListDTO, error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status filter %q", *filters.Status))
	}
	if filters.Type != nil && !filters.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid type filter %q", *filters.Type))
	}

	result, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stock moves")
	}
	return &MoveListDTO{
		Moves:      NewMoveDTOs(result.Moves),
		NextCursor: result.NextCursor,
	}, nil
}

// SetStatus walks the draft/ready/waiting/cancelled machine. Completing a move
// goes through ValidateMove so that stock is applied exactly once.
func (s *service) SetStatus(ctx context.Context, id uuid.UUID, target enums.MoveStatus) (*MoveDTO, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", target))
	}
	if target == enums.MoveStatusDone {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "moves are completed through validation")
	}

	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock move not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock move")
	}

	if !m.Status.CanTransitionTo(target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot transition %s move from %s to %s", m.Reference, m.Status, target))
	}

	flipped, err := s.repo.UpdateStatus(ctx, id, m.Status, target)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update move status")
	}
	if !flipped {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "move status changed concurrently")
	}

	return s.GetMove(ctx, id)
}

// ValidateMove completes the move and applies its stock effect atomically.
// Receipts add stock, deliveries subtract it with an insufficient-stock guard,
// internal transfers leave the total untouched.
func (s *service) ValidateMove(ctx context.Context, id uuid.UUID, actorID *uuid.UUID) (*MoveDTO, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock move not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock move")
	}

	if err := s.checkValidatable(m); err != nil {
		return nil, err
	}
	if m.SourceLocation == nil || m.DestLocation == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "move endpoints missing")
	}

	delta := stockDelta(m.SourceLocation, m.DestLocation, m.Quantity)

	txErr := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		flipped, err := txRepo.MarkValidated(ctx, id, actorID, time.Now().UTC())
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark move validated")
		}
		if !flipped {
			current, err := txRepo.FindByID(ctx, id)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload stock move")
			}
			return validationRaceError(current.Status)
		}

		if delta != 0 {
			applied, err := txRepo.AdjustProductStock(ctx, m.ProductID, delta)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust product stock")
			}
			if !applied {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock,
					fmt.Sprintf("not enough stock to validate %s (need %d)", m.Reference, -delta))
			}
		}
		return nil
	})
	if txErr != nil {
		if typed := pkgerrors.As(txErr); typed != nil && typed.Code() == pkgerrors.CodeInsufficientStock {
			s.ledger.IncRejected("insufficient_stock")
		}
		return nil, txErr
	}

	s.ledger.IncValidated(string(m.Type))
	return s.GetMove(ctx, id)
}

func (s *service) StockByLocation(ctx context.Context, productID uuid.UUID) (*StockByLocationDTO, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	rows, err := s.repo.StockByLocation(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve stock by location")
	}

	return &StockByLocationDTO{
		ProductID:  productID,
		TotalStock: product.TotalStock,
		Locations:  rows,
	}, nil
}

func (s *service) DashboardStats(ctx context.Context) (*DashboardCounts, error) {
	counts, err := s.repo.Dashboard(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "compute dashboard stats")
	}
	return counts, nil
}

func (s *service) checkValidatable(m *models.StockMove) error {
	switch m.Status {
	case enums.MoveStatusDone:
		return pkgerrors.New(pkgerrors.CodeAlreadyValidated, fmt.Sprintf("move %s is already validated", m.Reference))
	case enums.MoveStatusCancelled:
		return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("move %s is cancelled", m.Reference))
	}
	return nil
}

func validationRaceError(status enums.MoveStatus) error {
	if status == enums.MoveStatusDone {
		return pkgerrors.New(pkgerrors.CodeAlreadyValidated, "move is already validated")
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("move is %s", status))
}

// stockDelta derives the signed effect on the denormalized total from the
// endpoint types: stock enters when the destination is internal and leaves
// when the source is internal.
func stockDelta(src, dst *models.Location, quantity int) int {
	delta := 0
	if dst.Type == enums.LocationTypeInternal {
		delta += quantity
	}
	if src.Type == enums.LocationTypeInternal {
		delta -= quantity
	}
	return delta
}

// validateEndpoints enforces the direction rules per move type.
func validateEndpoints(moveType enums.MoveType, src, dst *models.Location) error {
	srcInternal := src.Type == enums.LocationTypeInternal
	dstInternal := dst.Type == enums.LocationTypeInternal

	switch moveType {
	case enums.MoveTypeReceipt:
		if srcInternal || !dstInternal {
			return pkgerrors.New(pkgerrors.CodeInvalidMove, "receipts run from an external location into an internal one")
		}
	case enums.MoveTypeDelivery:
		if !srcInternal || dstInternal {
			return pkgerrors.New(pkgerrors.CodeInvalidMove, "deliveries run from an internal location to an external one")
		}
	case enums.MoveTypeInternal:
		if !srcInternal || !dstInternal {
			return pkgerrors.New(pkgerrors.CodeInvalidMove, "internal transfers require internal endpoints")
		}
	case enums.MoveTypeAdjustment:
		if srcInternal == dstInternal {
			return pkgerrors.New(pkgerrors.CodeInvalidMove, "adjustments require exactly one internal endpoint")
		}
	}
	return nil
}
