package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dromero-dev/storefront-backend/pkg/enums"
)

// HistoryRow is one order joined with its product's display fields.
type HistoryRow struct {
	OrderID   uuid.UUID         `json:"order_id" gorm:"column:order_id"`
	ProductID uuid.UUID         `json:"product_id" gorm:"column:product_id"`
	Name      string            `json:"name" gorm:"column:name"`
	ImageURL  string            `json:"image_url" gorm:"column:image_url"`
	Category  string            `json:"category" gorm:"column:category"`
	Quantity  int               `json:"quantity" gorm:"column:quantity"`
	Total     decimal.Decimal   `json:"total" gorm:"column:total"`
	Status    enums.OrderStatus `json:"status" gorm:"column:status"`
	CreatedAt time.Time         `json:"created_at" gorm:"column:created_at"`
}
