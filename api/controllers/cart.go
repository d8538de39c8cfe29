package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/dromero-dev/storefront-backend/api/responses"
	"github.com/dromero-dev/storefront-backend/api/validators"
	cartsvc "github.com/dromero-dev/storefront-backend/internal/cart"
	"github.com/dromero-dev/storefront-backend/pkg/logger"
)

type setQuantityRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  *int      `json:"quantity" validate:"required,gte=0"`
}

// CartFetch returns the caller's ordered cart ledger.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"items": svc.Read(r.Context(), userID),
		})
	}
}

// CartSetQuantity sets the quantity for one product; zero removes the line.
// The response always carries the full updated ledger.
func CartSetQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines, err := svc.SetQuantity(r.Context(), userID, payload.ProductID, *payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"items": lines})
	}
}
