package location

import (
	"time"

	"github.com/google/uuid"

	"github.com/stockmasterhq/stockmaster-backend/pkg/db/models"
)

// LocationDTO represents the location payload returned to clients.
type LocationDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Address   *string   `json:"address,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewLocationDTO builds a DTO from the persisted model.
func NewLocationDTO(loc *models.Location) *LocationDTO {
	return &LocationDTO{
		ID:        loc.ID,
		Name:      loc.Name,
		Type:      string(loc.Type),
		Address:   loc.Address,
		IsActive:  loc.IsActive,
		CreatedAt: loc.CreatedAt,
		UpdatedAt: loc.UpdatedAt,
	}
}

// NewLocationDTOs maps a slice of models.
func NewLocationDTOs(rows []models.Location) []LocationDTO {
	out := make([]LocationDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *NewLocationDTO(&rows[i]))
	}
	return out
}
