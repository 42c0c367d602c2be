package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stockmasterhq/stockmaster-backend/api/responses"
	"github.com/stockmasterhq/stockmaster-backend/api/validators"
	movesvc "github.com/stockmasterhq/stockmaster-backend/internal/moves"
	"github.com/stockmasterhq/stockmaster-backend/pkg/enums"
	pkgerrors "github.com/stockmasterhq/stockmaster-backend/pkg/errors"
	"github.com/stockmasterhq/stockmaster-backend/pkg/logger"
)

type createMoveRequest struct {
	Type             string     `json:"type" validate:"required"`
	ProductID        string     `json:"product_id" validate:"required"`
	SourceLocationID string     `json:"source_location_id" validate:"required"`
	DestLocationID   string     `json:"dest_location_id" validate:"required"`
	Quantity         int        `json:"quantity" validate:"required,gt=0"`
	Notes            *string    `json:"notes,omitempty"`
	ScheduledAt      *time.Time `json:"scheduled_at,omitempty"`
}

type setMoveStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (req createMoveRequest) toCreateInput(createdBy *uuid.UUID) (movesvc.CreateMoveInput, error) {
	moveType, err := enums.ParseMoveType(strings.TrimSpace(req.Type))
	if err != nil {
		return movesvc.CreateMoveInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid move type")
	}
	productID, err := uuid.Parse(strings.TrimSpace(req.ProductID))
	if err != nil {
		return movesvc.CreateMoveInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	sourceID, err := uuid.Parse(strings.TrimSpace(req.SourceLocationID))
	if err != nil {
		return movesvc.CreateMoveInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid source location id")
	}
	destID, err := uuid.Parse(strings.TrimSpace(req.DestLocationID))
	if err != nil {
		return movesvc.CreateMoveInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid dest location id")
	}

	return movesvc.CreateMoveInput{
		Type:             moveType,
		ProductID:        productID,
		SourceLocationID: sourceID,
		DestLocationID:   destID,
		Quantity:         req.Quantity,
		Notes:            req.Notes,
		ScheduledAt:      req.ScheduledAt,
		CreatedBy:        createdBy,
	}, nil
}

// CreateMove appends a draft entry to the ledger.
func CreateMove(svc movesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "move service unavailable"))
			return
		}

		var payload createMoveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput(actorID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreateMove(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// GetMove returns one ledger entry by ID.
func GetMove(svc movesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "move service unavailable"))
			return
		}

		id, err := pathUUID(r, "moveID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetMove(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// ListMoves returns a cursor page of the ledger.
func ListMoves(svc movesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "move service unavailable"))
			return
		}

		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters movesvc.ListFilters
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseMoveStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filters.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			moveType, err := enums.ParseMoveType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type filter"))
				return
			}
			filters.Type = &moveType
		}
		productID, err := validators.ParseQueryUUID(r, "product_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters.ProductID = productID

		dto, err := svc.ListMoves(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// SetMoveStatus walks the draft/ready/waiting/cancelled machine.
func SetMoveStatus(svc movesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "move service unavailable"))
			return
		}

		id, err := pathUUID(r, "moveID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setMoveStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseMoveStatus(strings.TrimSpace(payload.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		dto, err := svc.SetStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// ValidateMove completes the move and applies its stock effect.
func ValidateMove(svc movesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "move service unavailable"))
			return
		}

		id, err := pathUUID(r, "moveID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.ValidateMove(r.Context(), id, actorID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// StockByLocation resolves one product's on-hand stock per internal location.
func StockByLocation(svc movesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "move service unavailable"))
			return
		}

		id, err := pathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.StockByLocation(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}
