package cart

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one product entry in a user's cart. Price and display fields are
// snapshotted at set-time; StockBound mirrors the catalog stock seen then
// (nil = unbounded).
type Line struct {
	ProductID  uuid.UUID       `json:"product_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	ImageURL   string          `json:"image_url"`
	Category   string          `json:"category"`
	StockBound *int            `json:"stock,omitempty"`
	Quantity   int             `json:"quantity"`
	AddedAt    time.Time       `json:"added_at"`
}

// LedgerStore keeps per-user cart ledgers in process memory. Each identity
// owns a mutex, so read-modify-write cycles for one user serialize while
// different users proceed independently. Insertion order is preserved.
type LedgerStore struct {
	mu      sync.Mutex
	ledgers map[uuid.UUID]*ledger
}

type ledger struct {
	mu    sync.Mutex
	lines []Line
}

// NewLedgerStore builds an empty store.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{ledgers: map[uuid.UUID]*ledger{}}
}

func (s *LedgerStore) ledger(userID uuid.UUID) *ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.ledgers[userID]
	if !ok {
		l = &ledger{}
		s.ledgers[userID] = l
	}
	return l
}

// Mutate runs fn as an atomic read-modify-write against one identity's
// ledger. fn receives a copy; the returned slice replaces the ledger unless
// fn errors, in which case the ledger is left untouched.
func (s *LedgerStore) Mutate(userID uuid.UUID, fn func(lines []Line) ([]Line, error)) ([]Line, error) {
	l := s.ledger(userID)
	l.mu.Lock()
	defer l.mu.Unlock()

	next, err := fn(copyLines(l.lines))
	if err != nil {
		return nil, err
	}
	l.lines = next
	return copyLines(next), nil
}

// Lines returns a copy of the identity's ordered ledger.
func (s *LedgerStore) Lines(userID uuid.UUID) []Line {
	l := s.ledger(userID)
	l.mu.Lock()
	defer l.mu.Unlock()
	return copyLines(l.lines)
}

// Clear drops the identity's ledger.
func (s *LedgerStore) Clear(userID uuid.UUID) {
	l := s.ledger(userID)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = nil
}

func copyLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}
