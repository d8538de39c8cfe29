package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dromero-dev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/dromero-dev/storefront-backend/pkg/errors"
)

type stubCatalog struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubCatalog) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls int
}

func (n *recordingNotifier) LedgerChanged(ctx context.Context, userID uuid.UUID, lines []Line) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
}

func intPtr(v int) *int { return &v }

func newTestService(t *testing.T, products ...*models.Product) (Service, *recordingNotifier) {
	t.Helper()
	catalog := &stubCatalog{products: map[uuid.UUID]*models.Product{}}
	for _, p := range products {
		catalog.products[p.ID] = p
	}
	notifier := &recordingNotifier{}
	svc, err := NewService(NewLedgerStore(), catalog, notifier, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, notifier
}

func testProduct(stock *int) *models.Product {
	return &models.Product{
		ID:       uuid.New(),
		Name:     "ceramic mug",
		Price:    decimal.RequireFromString("12.50"),
		Stock:    stock,
		Category: "kitchen",
		ImageURL: "/img/mug.png",
	}
}

func TestSetQuantityAppendsAndReplaces(t *testing.T) {
	product := testProduct(intPtr(10))
	svc, _ := newTestService(t, product)
	ctx := context.Background()
	userID := uuid.New()

	lines, err := svc.SetQuantity(ctx, userID, product.ID, 2)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if len(lines) != 1 || lines[0].Quantity != 2 {
		t.Fatalf("expected single line qty 2, got %+v", lines)
	}
	if !lines[0].UnitPrice.Equal(product.Price) {
		t.Fatalf("expected price snapshot %s, got %s", product.Price, lines[0].UnitPrice)
	}

	// Setting again replaces, never increments.
	lines, err = svc.SetQuantity(ctx, userID, product.ID, 5)
	if err != nil {
		t.Fatalf("set quantity again: %v", err)
	}
	if len(lines) != 1 || lines[0].Quantity != 5 {
		t.Fatalf("expected single line qty 5, got %+v", lines)
	}

	// Same value twice is a no-op.
	lines, err = svc.SetQuantity(ctx, userID, product.ID, 5)
	if err != nil {
		t.Fatalf("idempotent set: %v", err)
	}
	if len(lines) != 1 || lines[0].Quantity != 5 {
		t.Fatalf("expected unchanged line, got %+v", lines)
	}
}

func TestSetQuantityZeroRemovesIdempotently(t *testing.T) {
	product := testProduct(nil)
	svc, _ := newTestService(t, product)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.SetQuantity(ctx, userID, product.ID, 3); err != nil {
		t.Fatalf("seed line: %v", err)
	}

	lines, err := svc.SetQuantity(ctx, userID, product.ID, 0)
	if err != nil {
		t.Fatalf("remove line: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected empty ledger, got %+v", lines)
	}

	// Removing an absent line still succeeds.
	lines, err = svc.SetQuantity(ctx, userID, product.ID, 0)
	if err != nil {
		t.Fatalf("remove absent line: %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected empty ledger, got %+v", lines)
	}
}

func TestSetQuantityRejectsNegative(t *testing.T) {
	product := testProduct(nil)
	svc, _ := newTestService(t, product)

	_, err := svc.SetQuantity(context.Background(), uuid.New(), product.ID, -1)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSetQuantityUnknownProduct(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.SetQuantity(context.Background(), uuid.New(), uuid.New(), 1)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetQuantityStockExceededLeavesLedgerUnchanged(t *testing.T) {
	product := testProduct(intPtr(4))
	svc, _ := newTestService(t, product)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.SetQuantity(ctx, userID, product.ID, 3); err != nil {
		t.Fatalf("seed line: %v", err)
	}

	_, err := svc.SetQuantity(ctx, userID, product.ID, 5)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStockExceeded {
		t.Fatalf("expected stock exceeded, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected details map, got %T", typed.Details())
	}
	if details["stock"] != 4 {
		t.Fatalf("expected stock detail 4, got %v", details["stock"])
	}

	lines := svc.Read(ctx, userID)
	if len(lines) != 1 || lines[0].Quantity != 3 {
		t.Fatalf("expected ledger unchanged at qty 3, got %+v", lines)
	}
}

func TestSetQuantityBoundaryAndUnbounded(t *testing.T) {
	bounded := testProduct(intPtr(4))
	unbounded := testProduct(nil)
	svc, _ := newTestService(t, bounded, unbounded)
	ctx := context.Background()
	userID := uuid.New()

	// Exactly the bound is allowed.
	if _, err := svc.SetQuantity(ctx, userID, bounded.ID, 4); err != nil {
		t.Fatalf("set at bound: %v", err)
	}

	// NULL stock means no bound at all.
	if _, err := svc.SetQuantity(ctx, userID, unbounded.ID, 100000); err != nil {
		t.Fatalf("set unbounded: %v", err)
	}
}

func TestReadPreservesInsertionOrder(t *testing.T) {
	first := testProduct(nil)
	second := testProduct(nil)
	third := testProduct(nil)
	svc, _ := newTestService(t, first, second, third)
	ctx := context.Background()
	userID := uuid.New()

	for _, p := range []*models.Product{first, second, third} {
		if _, err := svc.SetQuantity(ctx, userID, p.ID, 1); err != nil {
			t.Fatalf("seed line: %v", err)
		}
	}
	// Updating the first line must not move it.
	if _, err := svc.SetQuantity(ctx, userID, first.ID, 7); err != nil {
		t.Fatalf("update first line: %v", err)
	}

	lines := svc.Read(ctx, userID)
	want := []uuid.UUID{first.ID, second.ID, third.ID}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i, id := range want {
		if lines[i].ProductID != id {
			t.Fatalf("line %d out of order: got %s want %s", i, lines[i].ProductID, id)
		}
	}
	if lines[0].Quantity != 7 {
		t.Fatalf("expected updated qty 7 in place, got %d", lines[0].Quantity)
	}
}

func TestReadEmptyLedger(t *testing.T) {
	svc, _ := newTestService(t)
	lines := svc.Read(context.Background(), uuid.New())
	if lines == nil || len(lines) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", lines)
	}
}

func TestClearDropsLedger(t *testing.T) {
	product := testProduct(nil)
	svc, _ := newTestService(t, product)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.SetQuantity(ctx, userID, product.ID, 2); err != nil {
		t.Fatalf("seed line: %v", err)
	}
	svc.Clear(userID)

	if lines := svc.Read(ctx, userID); len(lines) != 0 {
		t.Fatalf("expected cleared ledger, got %+v", lines)
	}
}

func TestNotifierCalledOnChange(t *testing.T) {
	product := testProduct(nil)
	svc, notifier := newTestService(t, product)
	ctx := context.Background()
	userID := uuid.New()

	if _, err := svc.SetQuantity(ctx, userID, product.ID, 1); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if _, err := svc.SetQuantity(ctx, userID, product.ID, 0); err != nil {
		t.Fatalf("remove line: %v", err)
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	if notifier.calls != 2 {
		t.Fatalf("expected 2 notifications, got %d", notifier.calls)
	}
}

func TestConcurrentSetsDoNotLoseUpdates(t *testing.T) {
	const workers = 32
	products := make([]*models.Product, workers)
	for i := range products {
		products[i] = testProduct(nil)
	}
	svc, _ := newTestService(t, products...)
	ctx := context.Background()
	userID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(p *models.Product) {
			defer wg.Done()
			if _, err := svc.SetQuantity(ctx, userID, p.ID, 1); err != nil {
				t.Errorf("concurrent set: %v", err)
			}
		}(products[i])
	}
	wg.Wait()

	lines := svc.Read(ctx, userID)
	if len(lines) != workers {
		t.Fatalf("expected %d lines, got %d", workers, len(lines))
	}
	seen := map[uuid.UUID]bool{}
	for _, line := range lines {
		if seen[line.ProductID] {
			t.Fatalf("duplicate line for %s", line.ProductID)
		}
		seen[line.ProductID] = true
	}
}
