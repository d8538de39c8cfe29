package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dromero-dev/storefront-backend/pkg/enums"
	pkgerrors "github.com/dromero-dev/storefront-backend/pkg/errors"
)

// Service defines order history and lifecycle operations.
type Service interface {
	History(ctx context.Context, userID uuid.UUID) ([]HistoryRow, error)
	UpdateStatus(ctx context.Context, userID, orderID uuid.UUID, target enums.OrderStatus) error
}

type service struct {
	repo Repository
}

// NewService builds an orders service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

// History returns the identity's orders joined with product display fields,
// newest first.
func (s *service) History(ctx context.Context, userID uuid.UUID) ([]HistoryRow, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	if rows == nil {
		rows = []HistoryRow{}
	}
	return rows, nil
}

// UpdateStatus advances one owned order along pending → received →
// return_requested. The compare-and-set matches id, owner, and required
// current status in one statement; an order that is missing or owned by
// another user yields the same NOT_FOUND either way.
func (s *service) UpdateStatus(ctx context.Context, userID, orderID uuid.UUID, target enums.OrderStatus) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if orderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}

	required, ok := target.RequiredCurrent()
	if !ok {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "status transition disallowed").
			WithDetails(map[string]any{"target": target})
	}

	affected, err := s.repo.UpdateStatus(ctx, orderID, userID, required, target)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}
	if affected > 0 {
		return nil
	}

	// Distinguish a wrong current status from an order that does not exist
	// for this owner. Both missing and foreign orders answer NOT_FOUND.
	current, err := s.repo.FindOwned(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "finding order")
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, "status transition disallowed").
		WithDetails(map[string]any{"status": current.Status, "target": target})
}
