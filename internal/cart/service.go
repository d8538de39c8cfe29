package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dromero-dev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/dromero-dev/storefront-backend/pkg/errors"
	"github.com/dromero-dev/storefront-backend/pkg/logger"
)

// Catalog is the read surface the cart needs from the product catalog.
type Catalog interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Notifier observes ledger changes. The default implementation logs.
type Notifier interface {
	LedgerChanged(ctx context.Context, userID uuid.UUID, lines []Line)
}

// Service defines the session cart operations.
type Service interface {
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, qty int) ([]Line, error)
	Read(ctx context.Context, userID uuid.UUID) []Line
	Clear(userID uuid.UUID)
}

type service struct {
	store    *LedgerStore
	catalog  Catalog
	notifier Notifier
	nowFn    func() time.Time
}

// NewService builds a cart service. notifier may be nil, in which case ledger
// changes are logged through logg.
func NewService(store *LedgerStore, catalog Catalog, notifier Notifier, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("ledger store required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if notifier == nil {
		notifier = &logNotifier{logg: logg}
	}
	return &service{
		store:    store,
		catalog:  catalog,
		notifier: notifier,
		nowFn:    time.Now,
	}, nil
}

// SetQuantity sets the quantity for one product in the identity's ledger.
// Setting the same quantity twice is a no-op; a set never increments.
// Quantity zero removes the line and succeeds whether or not it was present.
func (s *service) SetQuantity(ctx context.Context, userID, productID uuid.UUID, qty int) ([]Line, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if qty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}

	if qty == 0 {
		lines, err := s.store.Mutate(userID, func(lines []Line) ([]Line, error) {
			return removeLine(lines, productID), nil
		})
		if err != nil {
			return nil, err
		}
		s.notifier.LedgerChanged(ctx, userID, lines)
		return lines, nil
	}

	product, err := s.catalog.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	lines, err := s.store.Mutate(userID, func(lines []Line) ([]Line, error) {
		if product.Stock != nil && qty > *product.Stock {
			return nil, pkgerrors.New(pkgerrors.CodeStockExceeded, "requested quantity exceeds available stock").
				WithDetails(map[string]any{
					"product_id": product.ID,
					"stock":      *product.Stock,
				})
		}
		return upsertLine(lines, product, qty, s.nowFn()), nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.LedgerChanged(ctx, userID, lines)
	return lines, nil
}

// Read returns the identity's ordered ledger, empty when none.
func (s *service) Read(ctx context.Context, userID uuid.UUID) []Line {
	lines := s.store.Lines(userID)
	if lines == nil {
		return []Line{}
	}
	return lines
}

// Clear drops the identity's ledger. Used on logout and after checkout.
func (s *service) Clear(userID uuid.UUID) {
	s.store.Clear(userID)
}

func removeLine(lines []Line, productID uuid.UUID) []Line {
	out := lines[:0]
	for _, line := range lines {
		if line.ProductID != productID {
			out = append(out, line)
		}
	}
	return out
}

func upsertLine(lines []Line, product *models.Product, qty int, now time.Time) []Line {
	for i, line := range lines {
		if line.ProductID == product.ID {
			// Replace in place, keep position and AddedAt.
			lines[i] = snapshotLine(product, qty, line.AddedAt)
			return lines
		}
	}
	return append(lines, snapshotLine(product, qty, now))
}

func snapshotLine(product *models.Product, qty int, addedAt time.Time) Line {
	var bound *int
	if product.Stock != nil {
		v := *product.Stock
		bound = &v
	}
	return Line{
		ProductID:  product.ID,
		Name:       product.Name,
		UnitPrice:  product.Price,
		ImageURL:   product.ImageURL,
		Category:   product.Category,
		StockBound: bound,
		Quantity:   qty,
		AddedAt:    addedAt,
	}
}

type logNotifier struct {
	logg *logger.Logger
}

func (n *logNotifier) LedgerChanged(ctx context.Context, userID uuid.UUID, lines []Line) {
	if n.logg == nil {
		return
	}
	ctx = n.logg.WithFields(ctx, map[string]any{
		"user_id":    userID.String(),
		"line_count": len(lines),
	})
	n.logg.Info(ctx, "cart ledger changed")
}
