package location

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockmasterhq/stockmaster-backend/pkg/db/models"
	"github.com/stockmasterhq/stockmaster-backend/pkg/enums"
)

// Repository wires together location persistence helpers.
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

// FindByID loads the location by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	var loc models.Location
	if err := r.db.WithContext(ctx).First(&loc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &loc, nil
}

// FindByName loads the location by its unique name.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Location, error) {
	var loc models.Location
	if err := r.db.WithContext(ctx).First(&loc, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &loc, nil
}

// FindAdjustmentSource returns the first inventory loss location, the
// counterparty for adjustment moves.
func (r *Repository) FindAdjustmentSource(ctx context.Context) (*models.Location, error) {
	var loc models.Location
	err := r.db.WithContext(ctx).
		Where("type = ?", enums.LocationTypeInventoryLoss).
		Order("created_at ASC").
		First(&loc).
		Error
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// Create inserts a new location row.
func (r *Repository) Create(ctx context.Context, loc *models.Location) (*models.Location, error) {
	if err := r.db.WithContext(ctx).Create(loc).Error; err != nil {
		return nil, err
	}
	return loc, nil
}

// Update saves an existing location row.
func (r *Repository) Update(ctx context.Context, loc *models.Location) (*models.Location, error) {
	if err := r.db.WithContext(ctx).Save(loc).Error; err != nil {
		return nil, err
	}
	return loc, nil
}

// Delete removes a location by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Location{}).Error
}

// List returns locations, optionally filtered by type, ordered by name.
func (r *Repository) List(ctx context.Context, locType *enums.LocationType) ([]models.Location, error) {
	qb := r.db.WithContext(ctx).Model(&models.Location{})
	if locType != nil {
		qb = qb.Where("type = ?", *locType)
	}
	var rows []models.Location
	err := qb.Order("name ASC").Find(&rows).Error
	return rows, err
}

// CountMovesReferencing returns how many ledger entries use the location as an endpoint.
func (r *Repository) CountMovesReferencing(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.StockMove{}).
		Where("source_location_id = ? OR dest_location_id = ?", id, id).
		Count(&count).
		Error
	return count, err
}
