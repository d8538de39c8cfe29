package controllers

import (
	"net/http"

	"github.com/dromero-dev/storefront-backend/api/responses"
	checkoutsvc "github.com/dromero-dev/storefront-backend/internal/checkout"
	"github.com/dromero-dev/storefront-backend/pkg/logger"
)

// Checkout commits the caller's cart into order rows.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ack, err := svc.Finalize(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, ack)
	}
}
