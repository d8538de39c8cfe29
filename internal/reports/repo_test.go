package reports

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dromero-dev/storefront-backend/pkg/db/models"
	"github.com/dromero-dev/storefront-backend/pkg/enums"
	pkgerrors "github.com/dromero-dev/storefront-backend/pkg/errors"
)

func setupReportsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  price TEXT NOT NULL,
  stock INTEGER,
  category TEXT NOT NULL DEFAULT '',
  image_url TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME
);`
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  total TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(orders).Error)
	return db
}

func seedReportProduct(t *testing.T, db *gorm.DB, name, category string) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:       uuid.New(),
		Name:     name,
		Price:    decimal.RequireFromString("10.00"),
		Category: category,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedReportOrder(t *testing.T, db *gorm.DB, product *models.Product, qty int, total string, at time.Time) {
	t.Helper()
	order := &models.Order{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		ProductID: product.ID,
		Quantity:  qty,
		Total:     decimal.RequireFromString(total),
		Status:    enums.OrderStatusPending,
		CreatedAt: at,
		UpdatedAt: at,
	}
	require.NoError(t, db.Create(order).Error)
}

func TestSalesGroupsByProductSortedByRevenue(t *testing.T) {
	db := setupReportsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	ctx := context.Background()

	mug := seedReportProduct(t, db, "mug", "kitchen")
	lamp := seedReportProduct(t, db, "lamp", "lighting")
	now := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)

	seedReportOrder(t, db, mug, 2, "25.00", now)
	seedReportOrder(t, db, mug, 1, "12.50", now)
	seedReportOrder(t, db, lamp, 1, "99.00", now)

	rows, err := svc.Sales(ctx, GroupByProduct, Filters{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "lamp", rows[0].Bucket)
	assert.True(t, rows[0].Revenue.Equal(decimal.RequireFromString("99.00")), "got %s", rows[0].Revenue)

	assert.Equal(t, "mug", rows[1].Bucket)
	assert.EqualValues(t, 2, rows[1].Orders)
	assert.EqualValues(t, 3, rows[1].Units)
	assert.True(t, rows[1].Revenue.Equal(decimal.RequireFromString("37.50")), "got %s", rows[1].Revenue)
}

func TestSalesFiltersByCategoryAndDate(t *testing.T) {
	db := setupReportsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	ctx := context.Background()

	mug := seedReportProduct(t, db, "mug", "kitchen")
	lamp := seedReportProduct(t, db, "lamp", "lighting")

	early := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	late := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)
	seedReportOrder(t, db, mug, 1, "10.00", early)
	seedReportOrder(t, db, mug, 1, "10.00", late)
	seedReportOrder(t, db, lamp, 1, "99.00", late)

	from := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	rows, err := svc.Sales(ctx, GroupByCategory, Filters{From: &from, Category: "kitchen"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "kitchen", rows[0].Bucket)
	assert.EqualValues(t, 1, rows[0].Orders)
}

func TestSalesGroupsByDay(t *testing.T) {
	db := setupReportsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	mug := seedReportProduct(t, db, "mug", "kitchen")
	seedReportOrder(t, db, mug, 1, "10.00", time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC))
	seedReportOrder(t, db, mug, 1, "10.00", time.Date(2026, 8, 1, 17, 0, 0, 0, time.UTC))
	seedReportOrder(t, db, mug, 1, "10.00", time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC))

	rows, err := svc.Sales(context.Background(), GroupByDay, Filters{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Revenue.GreaterThan(rows[1].Revenue))
}

func TestSalesRejectsUnknownGroupBy(t *testing.T) {
	db := setupReportsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	_, err = svc.Sales(context.Background(), GroupBy("hour"), Filters{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestSalesEmptyResultIsNotNil(t *testing.T) {
	db := setupReportsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	rows, err := svc.Sales(context.Background(), "", Filters{})
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}
