package move

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockmasterhq/stockmaster-backend/pkg/db/models"
	"github.com/stockmasterhq/stockmaster-backend/pkg/enums"
	"github.com/stockmasterhq/stockmaster-backend/pkg/pagination"
)

// Repository wires together stock move persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new ledger entry.
func (r *Repository) Create(ctx context.Context, m *models.StockMove) (*models.StockMove, error) {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// FindByID loads a move with its product and endpoints preloaded.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.StockMove, error) {
	var m models.StockMove
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("SourceLocation").
		Preload("DestLocation").
		First(&m, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateStatus flips the move status without further guards. Used for the
// draft/ready/waiting/cancelled transitions after the service has checked the
// state machine.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.MoveStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.StockMove{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkValidated flips the move to done if and only if it is still in a
// pre-validation status. Returns false when another request won the race.
func (r *Repository) MarkValidated(ctx context.Context, id uuid.UUID, validatedBy *uuid.UUID, at time.Time) (bool, error) {
	pending := enums.PreValidationStatuses()
	res := r.db.WithContext(ctx).
		Model(&models.StockMove{}).
		Where("id = ? AND status IN ?", id, pending).
		Updates(map[string]any{
			"status":               enums.MoveStatusDone,
			"validated_by_user_id": validatedBy,
			"validated_at":         at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AdjustProductStock applies a signed delta to the denormalized on-hand count.
// Negative deltas are conditional on sufficient stock; returns false when the
// product row was not updated.
func (r *Repository) AdjustProductStock(ctx context.Context, productID uuid.UUID, delta int) (bool, error) {
	qb := r.db.WithContext(ctx).Model(&models.Product{})
	if delta < 0 {
		qb = qb.Where("id = ? AND total_stock >= ?", productID, -delta)
	} else {
		qb = qb.Where("id = ?", productID)
	}
	res := qb.Update("total_stock", gorm.Expr("total_stock + ?", delta))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListFilters narrows the ledger listing.
type ListFilters struct {
	Status    *enums.MoveStatus
	Type      *enums.MoveType
	ProductID *uuid.UUID
}

// ListResult carries one page of ledger entries plus the next cursor.
type ListResult struct {
	Moves      []models.StockMove
	NextCursor string
}

// List returns ledger entries newest first with cursor pagination.
func (r *Repository) List(ctx context.Context, params pagination.Params, filters ListFilters) (*ListResult, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).
		Model(&models.StockMove{}).
		Preload("Product").
		Preload("SourceLocation").
		Preload("DestLocation")

	if filters.Status != nil {
		qb = qb.Where("status = ?", *filters.Status)
	}
	if filters.Type != nil {
		qb = qb.Where("type = ?", *filters.Type)
	}
	if filters.ProductID != nil {
		qb = qb.Where("product_id = ?", *filters.ProductID)
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.StockMove
	if err := qb.Order("created_at DESC").Order("id DESC").Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return &ListResult{Moves: rows, NextCursor: nextCursor}, nil
}

// LocationStock is one row of the per-location stock breakdown.
type LocationStock struct {
	LocationID   uuid.UUID `json:"location_id"`
	LocationName string    `json:"location_name"`
	Quantity     int       `json:"quantity"`
}

const stockByLocationQuery = `
SELECT l.id AS location_id,
       l.name AS location_name,
       COALESCE(SUM(CASE WHEN m.dest_location_id = l.id THEN m.quantity ELSE 0 END), 0)
     - COALESCE(SUM(CASE WHEN m.source_location_id = l.id THEN m.quantity ELSE 0 END), 0) AS quantity
FROM locations l
LEFT JOIN stock_moves m
  ON m.status = 'done'
 AND m.product_id = ?
 AND (m.dest_location_id = l.id OR m.source_location_id = l.id)
WHERE l.type = 'internal'
GROUP BY l.id, l.name
ORDER BY l.name ASC
`

// StockByLocation replays the done ledger to compute on-hand stock per
// internal location for the product.
func (r *Repository) StockByLocation(ctx context.Context, productID uuid.UUID) ([]LocationStock, error) {
	var rows []LocationStock
	if err := r.db.WithContext(ctx).Raw(stockByLocationQuery, productID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DashboardCounts aggregates the operational dashboard numbers.
type DashboardCounts struct {
	TotalProducts     int64 `json:"total_products"`
	LowStockCount     int64 `json:"low_stock_count"`
	PendingReceipts   int64 `json:"pending_receipts"`
	PendingDeliveries int64 `json:"pending_deliveries"`
}

// Dashboard computes the stats shown on the landing screen.
func (r *Repository) Dashboard(ctx context.Context) (*DashboardCounts, error) {
	var counts DashboardCounts

	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true).
		Count(&counts.TotalProducts).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ? AND total_stock < low_stock_threshold", true).
		Count(&counts.LowStockCount).Error; err != nil {
		return nil, err
	}

	pending := enums.PreValidationStatuses()
	if err := r.db.WithContext(ctx).
		Model(&models.StockMove{}).
		Where("type = ? AND status IN ?", enums.MoveTypeReceipt, pending).
		Count(&counts.PendingReceipts).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).
		Model(&models.StockMove{}).
		Where("type = ? AND status IN ?", enums.MoveTypeDelivery, pending).
		Count(&counts.PendingDeliveries).Error; err != nil {
		return nil, err
	}

	return &counts, nil
}
