package controllers

import (
	"net/http"

	"github.com/stockmasterhq/stockmaster-backend/api/responses"
	movesvc "github.com/stockmasterhq/stockmaster-backend/internal/moves"
	pkgerrors "github.com/stockmasterhq/stockmaster-backend/pkg/errors"
	"github.com/stockmasterhq/stockmaster-backend/pkg/logger"
)

// DashboardStats aggregates the headline inventory counters.
func DashboardStats(svc movesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "move service unavailable"))
			return
		}

		counts, err := svc.DashboardStats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, counts)
	}
}
