package reports

import (
	"context"
	"fmt"

	pkgerrors "github.com/dromero-dev/storefront-backend/pkg/errors"
)

// Service produces the admin sales report.
type Service interface {
	Sales(ctx context.Context, groupBy GroupBy, filters Filters) ([]Row, error)
}

type service struct {
	repo Repository
}

// NewService builds a reports service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	return &service{repo: repo}, nil
}

// Sales aggregates committed orders by the requested axis, most revenue
// first. An empty groupBy defaults to per-product.
func (s *service) Sales(ctx context.Context, groupBy GroupBy, filters Filters) ([]Row, error) {
	switch groupBy {
	case "":
		groupBy = GroupByProduct
	case GroupByProduct, GroupByCategory, GroupByDay:
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown group_by value").
			WithDetails(map[string]any{"group_by": groupBy})
	}
	if filters.From != nil && filters.To != nil && filters.To.Before(*filters.From) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "date range is inverted")
	}

	rows, err := s.repo.Sales(ctx, groupBy, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "aggregating sales")
	}
	if rows == nil {
		rows = []Row{}
	}
	return rows, nil
}
