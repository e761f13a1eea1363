package orders

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zenc-cp/clawwork-cloud-api/src/economics"
)

// OrderStatus enumerates lifecycle states. Orders never regress and
// "delivered" is terminal.
type OrderStatus string

const (
	StatusInProgress       OrderStatus = "in_progress"
	StatusReadyForDelivery OrderStatus = "ready_for_delivery"
	StatusDelivered        OrderStatus = "delivered"
)

var (
	// ErrNotFound is returned for an unknown order id.
	ErrNotFound = errors.New("orders: order not found")
	// ErrStateConflict is returned for an operation invalid in the
	// order's current state. The operation has no side effects.
	ErrStateConflict = errors.New("orders: invalid state for operation")
)

// Order is a unit of marketplace work.
type Order struct {
	ID           string      `json:"order_id"`
	GigType      string      `json:"gig_type"`
	Buyer        string      `json:"buyer"`
	Requirements string      `json:"requirements"`
	Industry     string      `json:"industry"`
	TargetMarket string      `json:"target_market"`
	Status       OrderStatus `json:"status"`
	Deliverable  string      `json:"deliverable,omitempty"`
	Error        string      `json:"error,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	DeliveredAt  *time.Time  `json:"delivered_at,omitempty"`
}

// NewOrder carries the buyer-supplied fields for Create.
type NewOrder struct {
	GigType      string
	Buyer        string
	Requirements string
	Industry     string
	TargetMarket string
}

// Store owns all orders. Callers only ever receive copies; mutation
// goes through the lifecycle methods under the store lock.
type Store struct {
	mu     sync.RWMutex
	orders map[string]*Order
	ledger *economics.Ledger
}

// NewStore creates an empty order store crediting the given ledger on
// delivery.
func NewStore(ledger *economics.Ledger) *Store {
	return &Store{
		orders: make(map[string]*Order),
		ledger: ledger,
	}
}

// Create registers a new order in in_progress state and returns a copy.
func (s *Store) Create(req NewOrder) Order {
	if req.Industry == "" {
		req.Industry = "technology"
	}
	if req.TargetMarket == "" {
		req.TargetMarket = "global"
	}
	o := &Order{
		ID:           "order_" + uuid.NewString()[:8],
		GigType:      req.GigType,
		Buyer:        req.Buyer,
		Requirements: req.Requirements,
		Industry:     req.Industry,
		TargetMarket: req.TargetMarket,
		Status:       StatusInProgress,
		CreatedAt:    time.Now().UTC(),
	}

	s.mu.Lock()
	s.orders[o.ID] = o
	s.mu.Unlock()

	return *o
}

// Get returns a copy of the order.
func (s *Store) Get(id string) (Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return Order{}, ErrNotFound
	}
	return *o, nil
}

// List returns copies of all orders, newest first.
func (s *Store) List() []Order {
	s.mu.RLock()
	out := make([]Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, *o)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// SetDeliverable attaches the generated payload and moves the order to
// ready_for_delivery. Valid only while in_progress; an existing
// deliverable is never overwritten.
func (s *Store) SetDeliverable(id, payload string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return ErrNotFound
	}
	if o.Status != StatusInProgress {
		return fmt.Errorf("%w: cannot attach deliverable to %s order %s", ErrStateConflict, o.Status, id)
	}

	o.Deliverable = payload
	o.Status = StatusReadyForDelivery
	return nil
}

// RecordFailure notes a background generation error on the order so it
// is observable by polling. The order stays in_progress.
func (s *Store) RecordFailure(id string, genErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o, ok := s.orders[id]; ok && o.Status == StatusInProgress {
		o.Error = genErr.Error()
	}
}

// Deliver completes the order and credits the ledger with the catalog
// price for its gig type, exactly once. Valid only from
// ready_for_delivery; any other state is rejected without touching the
// ledger.
func (s *Store) Deliver(id string) (Order, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return Order{}, 0, ErrNotFound
	}
	switch o.Status {
	case StatusReadyForDelivery:
	case StatusDelivered:
		return Order{}, 0, fmt.Errorf("%w: order %s already delivered", ErrStateConflict, id)
	default:
		return Order{}, 0, fmt.Errorf("%w: order %s is %s, not ready for delivery", ErrStateConflict, id, o.Status)
	}

	price, matched := Lookup(o.GigType)
	if !matched {
		log.Printf("orders: gig type %q not in catalog, using standard price %.2f for %s", o.GigType, price, id)
	}
	if err := s.ledger.TrackIncome(price); err != nil {
		return Order{}, 0, fmt.Errorf("orders: credit income: %w", err)
	}

	now := time.Now().UTC()
	o.Status = StatusDelivered
	o.DeliveredAt = &now
	return *o, price, nil
}
