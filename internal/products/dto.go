package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockmasterhq/stockmaster-backend/pkg/db/models"
)

// ProductDTO represents the catalog payload returned to clients.
type ProductDTO struct {
	ID                uuid.UUID       `json:"id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Description       *string         `json:"description,omitempty"`
	Category          *string         `json:"category,omitempty"`
	UnitOfMeasure     string          `json:"unit_of_measure"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	TotalStock        int             `json:"total_stock"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	IsLowStock        bool            `json:"is_low_stock"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ProductListDTO carries a page of products.
type ProductListDTO struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(p *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:                p.ID,
		SKU:               p.SKU,
		Name:              p.Name,
		Description:       p.Description,
		Category:          p.Category,
		UnitOfMeasure:     p.UnitOfMeasure,
		CostPrice:         p.CostPrice,
		TotalStock:        p.TotalStock,
		LowStockThreshold: p.LowStockThreshold,
		IsLowStock:        p.IsLowStock(),
		IsActive:          p.IsActive,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// NewProductDTOs maps a slice of models.
func NewProductDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewProductDTO(&rows[i]))
	}
	return out
}
