package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dromero-dev/storefront-backend/api/responses"
	"github.com/dromero-dev/storefront-backend/internal/reports"
	pkgerrors "github.com/dromero-dev/storefront-backend/pkg/errors"
	"github.com/dromero-dev/storefront-backend/pkg/logger"
)

// ReportSales aggregates committed orders for administrators. Supported query
// params: group_by (product|category|day), from, to (RFC 3339 or YYYY-MM-DD,
// to exclusive), product_id, category.
func ReportSales(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		filters := reports.Filters{Category: query.Get("category")}

		if raw := query.Get("from"); raw != "" {
			at, err := parseReportTime(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid from date"))
				return
			}
			filters.From = &at
		}
		if raw := query.Get("to"); raw != "" {
			at, err := parseReportTime(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid to date"))
				return
			}
			filters.To = &at
		}
		if raw := query.Get("product_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
				return
			}
			filters.ProductID = &id
		}

		rows, err := svc.Sales(r.Context(), reports.GroupBy(query.Get("group_by")), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"rows": rows})
	}
}

func parseReportTime(raw string) (time.Time, error) {
	if at, err := time.Parse(time.RFC3339, raw); err == nil {
		return at, nil
	}
	return time.Parse("2006-01-02", raw)
}
