package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockmasterhq/stockmaster-backend/pkg/enums"
)

// StockMove is one entry in the append-only movement ledger. A move mutates
// stock exactly once, at validation, when its status reaches done.
type StockMove struct {
	ID                uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	Reference         string           `gorm:"column:reference;not null;uniqueIndex"`
	Type              enums.MoveType   `gorm:"column:type;not null"`
	Status            enums.MoveStatus `gorm:"column:status;not null;default:draft"`
	ProductID         uuid.UUID        `gorm:"column:product_id;type:uuid;not null;index"`
	SourceLocationID  uuid.UUID        `gorm:"column:source_location_id;type:uuid;not null"`
	DestLocationID    uuid.UUID        `gorm:"column:dest_location_id;type:uuid;not null"`
	Quantity          int              `gorm:"column:quantity;not null"`
	Notes             *string          `gorm:"column:notes"`
	ScheduledAt       *time.Time       `gorm:"column:scheduled_at"`
	CreatedByUserID   *uuid.UUID       `gorm:"column:created_by_user_id;type:uuid"`
	ValidatedByUserID *uuid.UUID       `gorm:"column:validated_by_user_id;type:uuid"`
	ValidatedAt       *time.Time       `gorm:"column:validated_at"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime"`

	Product        *Product  `gorm:"foreignKey:ProductID"`
	SourceLocation *Location `gorm:"foreignKey:SourceLocationID"`
	DestLocation   *Location `gorm:"foreignKey:DestLocationID"`
}

func (m *StockMove) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
