package move

import (
	"time"

	"github.com/google/uuid"

	"github.com/stockmasterhq/stockmaster-backend/pkg/db/models"
)

// MoveDTO represents one ledger entry returned to clients.
type MoveDTO struct {
	ID              uuid.UUID    `json:"id"`
	Reference       string       `json:"reference"`
	Type            string       `json:"type"`
	Status          string       `json:"status"`
	Quantity        int          `json:"quantity"`
	Notes           *string      `json:"notes,omitempty"`
	Product         *ProductRef  `json:"product,omitempty"`
	SourceLocation  *LocationRef `json:"source_location,omitempty"`
	DestLocation    *LocationRef `json:"dest_location,omitempty"`
	ScheduledAt     *time.Time   `json:"scheduled_at,omitempty"`
	ValidatedAt     *time.Time   `json:"validated_at,omitempty"`
	ValidatedByUser *uuid.UUID   `json:"validated_by_user_id,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// ProductRef is the minimal product payload embedded in ledger responses.
type ProductRef struct {
	ID   uuid.UUID `json:"id"`
	SKU  string    `json:"sku"`
	Name string    `json:"name"`
}

// LocationRef is the minimal location payload embedded in ledger responses.
type LocationRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Type string    `json:"type"`
}

// MoveListDTO carries a page of ledger entries.
type MoveListDTO struct {
	Moves      []MoveDTO `json:"moves"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// StockByLocationDTO is the resolver output for one product.
type StockByLocationDTO struct {
	ProductID  uuid.UUID       `json:"product_id"`
	TotalStock int             `json:"total_stock"`
	Locations  []LocationStock `json:"locations"`
}

// NewMoveDTO builds a DTO from the persisted model.
func NewMoveDTO(m *models.StockMove) *MoveDTO {
	dto := &MoveDTO{
		ID:              m.ID,
		Reference:       m.Reference,
		Type:            string(m.Type),
		Status:          string(m.Status),
		Quantity:        m.Quantity,
		Notes:           m.Notes,
		ScheduledAt:     m.ScheduledAt,
		ValidatedAt:     m.ValidatedAt,
		ValidatedByUser: m.ValidatedByUserID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.Product != nil {
		dto.Product = &ProductRef{ID: m.Product.ID, SKU: m.Product.SKU, Name: m.Product.Name}
	}
	if m.SourceLocation != nil {
		dto.SourceLocation = &LocationRef{ID: m.SourceLocation.ID, Name: m.SourceLocation.Name, Type: string(m.SourceLocation.Type)}
	}
	if m.DestLocation != nil {
		dto.DestLocation = &LocationRef{ID: m.DestLocation.ID, Name: m.DestLocation.Name, Type: string(m.DestLocation.Type)}
	}
	return dto
}

// NewMoveDTOs maps a slice of models.
func NewMoveDTOs(rows []models.StockMove) []MoveDTO {
	out := make([]MoveDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewMoveDTO(&rows[i]))
	}
	return out
}
