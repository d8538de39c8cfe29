package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dromero-dev/storefront-backend/internal/cart"
	"github.com/dromero-dev/storefront-backend/internal/orders"
	"github.com/dromero-dev/storefront-backend/pkg/db/models"
	"github.com/dromero-dev/storefront-backend/pkg/enums"
	pkgerrors "github.com/dromero-dev/storefront-backend/pkg/errors"
	"github.com/dromero-dev/storefront-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CartLedger is the slice of the cart surface checkout needs.
type CartLedger interface {
	Read(ctx context.Context, userID uuid.UUID) []cart.Line
	Clear(userID uuid.UUID)
}

// Ack acknowledges a committed checkout.
type Ack struct {
	OrderIDs []uuid.UUID     `json:"order_ids"`
	Total    decimal.Decimal `json:"total"`
}

// Service turns a cart ledger into committed order rows.
type Service interface {
	Finalize(ctx context.Context, userID uuid.UUID) (*Ack, error)
}

type service struct {
	ledger CartLedger
	repo   orders.Repository
	tx     txRunner
	logg   *logger.Logger
}

// NewService builds a checkout service with the required dependencies.
func NewService(ledger CartLedger, repo orders.Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if ledger == nil {
		return nil, fmt.Errorf("cart ledger required")
	}
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		ledger: ledger,
		repo:   repo,
		tx:     tx,
		logg:   logg,
	}, nil
}

// Finalize writes one order row per cart line inside a single transaction,
// using the price locked on each line. Any insert failure rolls the whole
// batch back and leaves the ledger untouched. The ledger clear happens only
// after commit and is best effort: an order may momentarily coexist with its
// cart lines, never the other way around.
func (s *service) Finalize(ctx context.Context, userID uuid.UUID) (*Ack, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	lines := s.ledger.Read(ctx, userID)
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}

	orderIDs := make([]uuid.UUID, 0, len(lines))
	total := decimal.Zero

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, line := range lines {
			lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
			order := &models.Order{
				ID:        uuid.New(),
				UserID:    userID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Total:     lineTotal,
				Status:    enums.OrderStatusPending,
			}
			if _, err := repo.Create(ctx, order); err != nil {
				return fmt.Errorf("creating order for product %s: %w", line.ProductID, err)
			}
			orderIDs = append(orderIDs, order.ID)
			total = total.Add(lineTotal)
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finalizing checkout")
	}

	s.ledger.Clear(userID)
	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"user_id":     userID.String(),
			"order_count": len(orderIDs),
			"total":       total.String(),
		})
		s.logg.Info(ctx, "checkout committed")
	}

	return &Ack{OrderIDs: orderIDs, Total: total}, nil
}
