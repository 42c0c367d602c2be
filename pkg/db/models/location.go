package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockmasterhq/stockmaster-backend/pkg/enums"
)

// Location is an endpoint a stock move runs between. Internal locations hold
// owned stock; the other types model the outside world so that receipts and
// deliveries always have two endpoints.
type Location struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Name      string             `gorm:"column:name;not null;uniqueIndex"`
	Type      enums.LocationType `gorm:"column:type;not null"`
	Address   *string            `gorm:"column:address"`
	IsActive  bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (l *Location) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
