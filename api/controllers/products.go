package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockmasterhq/stockmaster-backend/api/responses"
	"github.com/stockmasterhq/stockmaster-backend/api/validators"
	productsvc "github.com/stockmasterhq/stockmaster-backend/internal/products"
	pkgerrors "github.com/stockmasterhq/stockmaster-backend/pkg/errors"
	"github.com/stockmasterhq/stockmaster-backend/pkg/logger"
)

type createProductRequest struct {
	SKU               string               `json:"sku" validate:"required"`
	Name              string               `json:"name" validate:"required"`
	Description       *string              `json:"description,omitempty"`
	Category          *string              `json:"category,omitempty"`
	UnitOfMeasure     string               `json:"unit_of_measure,omitempty"`
	CostPrice         *string              `json:"cost_price,omitempty"`
	LowStockThreshold *int                 `json:"low_stock_threshold,omitempty" validate:"omitempty,min=0"`
	InitialStock      *initialStockRequest `json:"initial_stock,omitempty"`
}

type initialStockRequest struct {
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
	LocationID string `json:"location_id" validate:"required"`
}

type updateProductRequest struct {
	SKU               *string `json:"sku,omitempty"`
	Name              *string `json:"name,omitempty"`
	Description       *string `json:"description,omitempty"`
	Category          *string `json:"category,omitempty"`
	UnitOfMeasure     *string `json:"unit_of_measure,omitempty"`
	CostPrice         *string `json:"cost_price,omitempty"`
	LowStockThreshold *int    `json:"low_stock_threshold,omitempty" validate:"omitempty,min=0"`
	IsActive          *bool   `json:"is_active,omitempty"`
}

func parseCostPrice(raw *string) (decimal.Decimal, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return decimal.Zero, nil
	}
	value, err := decimal.NewFromString(strings.TrimSpace(*raw))
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cost_price")
	}
	return value, nil
}

func (req createProductRequest) toCreateInput(createdBy *uuid.UUID) (productsvc.CreateProductInput, error) {
	cost, err := parseCostPrice(req.CostPrice)
	if err != nil {
		return productsvc.CreateProductInput{}, err
	}

	input := productsvc.CreateProductInput{
		SKU:               req.SKU,
		Name:              req.Name,
		Description:       req.Description,
		Category:          req.Category,
		UnitOfMeasure:     req.UnitOfMeasure,
		CostPrice:         cost,
		LowStockThreshold: req.LowStockThreshold,
		CreatedBy:         createdBy,
	}

	if req.InitialStock != nil {
		locationID, err := uuid.Parse(strings.TrimSpace(req.InitialStock.LocationID))
		if err != nil {
			return productsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid initial stock location id")
		}
		input.InitialStock = &productsvc.InitialStockInput{
			Quantity:   req.InitialStock.Quantity,
			LocationID: locationID,
		}
	}

	return input, nil
}

// CreateProduct handles catalog creation, optionally seeding opening stock.
func CreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput(actorID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// GetProduct returns one product by ID.
func GetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := pathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// UpdateProduct applies a partial update to the catalog entry.
func UpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := pathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := productsvc.UpdateProductInput{
			SKU:               payload.SKU,
			Name:              payload.Name,
			Description:       payload.Description,
			Category:          payload.Category,
			UnitOfMeasure:     payload.UnitOfMeasure,
			LowStockThreshold: payload.LowStockThreshold,
			IsActive:          payload.IsActive,
		}
		if payload.CostPrice != nil {
			cost, err := parseCostPrice(payload.CostPrice)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			input.CostPrice = &cost
		}

		dto, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}

// DeleteProduct removes a product that the ledger does not reference.
func DeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := pathUUID(r, "productID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ListProducts returns a cursor page of the catalog.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		params, err := paginationParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lowStockOnly, err := validators.ParseQueryBool(r, "low_stock")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := productsvc.ListFilters{
			Query:        strings.TrimSpace(r.URL.Query().Get("q")),
			LowStockOnly: lowStockOnly,
		}
		if category := strings.TrimSpace(r.URL.Query().Get("category")); category != "" {
			filters.Category = &category
		}

		dto, err := svc.ListProducts(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dto)
	}
}
