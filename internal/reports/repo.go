package reports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GroupBy selects the sales report aggregation axis.
type GroupBy string

const (
	GroupByProduct  GroupBy = "product"
	GroupByCategory GroupBy = "category"
	GroupByDay      GroupBy = "day"
)

// Filters narrow the orders considered by the report.
type Filters struct {
	From      *time.Time
	To        *time.Time
	ProductID *uuid.UUID
	Category  string
}

// Row is one aggregated bucket of the sales report.
type Row struct {
	Bucket  string          `json:"bucket" gorm:"column:bucket"`
	Orders  int64           `json:"orders" gorm:"column:order_count"`
	Units   int64           `json:"units" gorm:"column:units"`
	Revenue decimal.Decimal `json:"revenue" gorm:"column:revenue"`
}

// Repository aggregates committed orders for reporting.
type Repository interface {
	Sales(ctx context.Context, groupBy GroupBy, filters Filters) ([]Row, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a reports repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Sales(ctx context.Context, groupBy GroupBy, filters Filters) ([]Row, error) {
	bucket := bucketExpr(groupBy)

	q := r.db.WithContext(ctx).
		Table("orders").
		Select(bucket + ` AS bucket,
			COUNT(*) AS order_count,
			SUM(orders.quantity) AS units,
			SUM(orders.total) AS revenue`).
		Joins("JOIN products ON products.id = orders.product_id")

	if filters.From != nil {
		q = q.Where("orders.created_at >= ?", *filters.From)
	}
	if filters.To != nil {
		q = q.Where("orders.created_at < ?", *filters.To)
	}
	if filters.ProductID != nil {
		q = q.Where("orders.product_id = ?", *filters.ProductID)
	}
	if filters.Category != "" {
		q = q.Where("products.category = ?", filters.Category)
	}

	var rows []Row
	err := q.Group(bucket).
		Order("revenue DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func bucketExpr(groupBy GroupBy) string {
	switch groupBy {
	case GroupByCategory:
		return "products.category"
	case GroupByDay:
		return "date(orders.created_at)"
	default:
		return "products.name"
	}
}
