package location

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgdb "github.com/stockmasterhq/stockmaster-backend/pkg/db"
	"github.com/stockmasterhq/stockmaster-backend/pkg/db/models"
	"github.com/stockmasterhq/stockmaster-backend/pkg/enums"
	pkgerrors "github.com/stockmasterhq/stockmaster-backend/pkg/errors"
)

// Service exposes warehouse location management operations.
type Service interface {
	CreateLocation(ctx context.Context, input CreateLocationInput) (*LocationDTO, error)
	UpdateLocation(ctx context.Context, id uuid.UUID, input UpdateLocationInput) (*LocationDTO, error)
	DeleteLocation(ctx context.Context, id uuid.UUID) error
	GetLocation(ctx context.Context, id uuid.UUID) (*LocationDTO, error)
	ListLocations(ctx context.Context, locType *enums.LocationType) ([]LocationDTO, error)
}

// CreateLocationInput holds the validated payload to create a location.
type CreateLocationInput struct {
	Name    string
	Type    enums.LocationType
	Address *string
}

// UpdateLocationInput holds optional mutation values for a location.
type UpdateLocationInput struct {
	Name     *string
	Address  *string
	IsActive *bool
}

type service struct {
	repo *Repository
}

// NewService constructs a location service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("location repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateLocation(ctx context.Context, input CreateLocationInput) (*LocationDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "location name is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid location type %q", input.Type))
	}

	loc := &models.Location{
		Name:     name,
		Type:     input.Type,
		Address:  input.Address,
		IsActive: true,
	}

	created, err := s.repo.Create(ctx, loc)
	if err != nil {
		if pkgdb.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, fmt.Sprintf("location name %q already exists", name))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert location")
	}
	return NewLocationDTO(created), nil
}

func (s *service) UpdateLocation(ctx context.Context, id uuid.UUID, input UpdateLocationInput) (*LocationDTO, error) {
	loc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "location name cannot be empty")
		}
		loc.Name = name
	}
	if input.Address != nil {
		loc.Address = input.Address
	}
	if input.IsActive != nil {
		loc.IsActive = *input.IsActive
	}

	updated, err := s.repo.Update(ctx, loc)
	if err != nil {
		if pkgdb.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, fmt.Sprintf("location name %q already exists", loc.Name))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update location")
	}
	return NewLocationDTO(updated), nil
}

func (s *service) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location")
	}

	referenced, err := s.repo.CountMovesReferencing(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count moves for location")
	}
	if referenced > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "location is referenced by stock moves")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete location")
	}
	return nil
}

func (s *service) GetLocation(ctx context.Context, id uuid.UUID) (*LocationDTO, error) {
	loc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "location not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load location")
	}
	return NewLocationDTO(loc), nil
}

func (s *service) ListLocations(ctx context.Context, locType *enums.LocationType) ([]LocationDTO, error) {
	if locType != nil && !locType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid location type %q", *locType))
	}
	rows, err := s.repo.List(ctx, locType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list locations")
	}
	return NewLocationDTOs(rows), nil
}
