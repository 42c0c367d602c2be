package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog item tracked by the stock ledger. TotalStock is the
// denormalized on-hand count across all internal locations and only changes
// when a move is validated.
type Product struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	SKU               string          `gorm:"column:sku;not null;uniqueIndex"`
	Name              string          `gorm:"column:name;not null"`
	Description       *string         `gorm:"column:description"`
	Category          *string         `gorm:"column:category"`
	UnitOfMeasure     string          `gorm:"column:unit_of_measure;not null;default:Units"`
	CostPrice         decimal.Decimal `gorm:"column:cost_price;type:numeric(12,2);not null"`
	TotalStock        int             `gorm:"column:total_stock;not null;default:0"`
	LowStockThreshold int             `gorm:"column:low_stock_threshold;not null;default:10"`
	IsActive          bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Product) IsLowStock() bool {
	return p.TotalStock < p.LowStockThreshold
}
