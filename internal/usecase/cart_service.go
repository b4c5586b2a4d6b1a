package usecase

import (
	"context"
	"log"
	"sync"

	"github.com/foodexplorer/backend/internal/domain"
	"github.com/foodexplorer/backend/internal/events"
)

// CartService holds cart line items with durable persistence. Totals are
// recomputed from scratch on every mutation rather than adjusted
// incrementally, so they can never drift from the lines.
type CartService struct {
	storage domain.CartStorage
	broker  *events.Broker

	mu    sync.Mutex
	state domain.CartState
}

// NewCartService creates a cart service hydrated from storage. Absent,
// corrupt, or unreadable storage is logged and swallowed: the cart starts
// empty rather than failing the process.
func NewCartService(ctx context.Context, storage domain.CartStorage, broker *events.Broker) *CartService {
	s := &CartService{
		storage: storage,
		broker:  broker,
		state:   domain.EmptyCart(),
	}

	loaded, err := storage.Load(ctx)
	switch {
	case err != nil:
		log.Printf("[Cart] Failed to load persisted cart, starting empty: %v", err)
	case loaded != nil:
		s.state = *loaded
		s.state.TotalItems = sumQuantities(s.state.Items)
		log.Printf("[Cart] Restored %d lines (%d items)", len(s.state.Items), s.state.TotalItems)
	}
	if s.state.Items == nil {
		s.state.Items = []domain.CartLine{}
	}

	return s
}

// State returns a snapshot of the cart.
func (s *CartService) State() domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// TotalItems returns the current item-count aggregate.
func (s *CartService) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.TotalItems
}

// AddItem adds quantity units of a product. An existing line for the same
// code grows by quantity; otherwise a new line is appended.
func (s *CartService) AddItem(ctx context.Context, product domain.Product, quantity int) error {
	if product.Code == "" {
		return domain.ErrInvalidRequest
	}
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if line := s.findLocked(product.Code); line != nil {
		line.Quantity += quantity
	} else {
		s.state.Items = append(s.state.Items, domain.LineFromProduct(product, quantity))
	}

	s.commitLocked(ctx)
	return nil
}

// RemoveItem deletes the line entirely, regardless of quantity.
func (s *CartService) RemoveItem(ctx context.Context, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.state.Items[:0]
	for _, line := range s.state.Items {
		if line.Code != code {
			kept = append(kept, line)
		}
	}
	s.state.Items = kept

	s.commitLocked(ctx)
}

// IncrementQuantity raises a line's quantity by 1. Unknown codes are no-ops.
func (s *CartService) IncrementQuantity(ctx context.Context, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if line := s.findLocked(code); line != nil {
		line.Quantity++
	}

	s.commitLocked(ctx)
}

// DecrementQuantity lowers a line's quantity by 1, but never below 1: a line
// at quantity 1 stays at 1. Removal only happens through RemoveItem.
func (s *CartService) DecrementQuantity(ctx context.Context, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if line := s.findLocked(code); line != nil && line.Quantity > 1 {
		line.Quantity--
	}

	s.commitLocked(ctx)
}

// ClearCart empties the cart.
func (s *CartService) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Items = []domain.CartLine{}

	s.commitLocked(ctx)
}

// commitLocked recomputes the aggregate, persists the whole state, and
// notifies subscribers. Persistence failures are logged, never surfaced:
// the in-memory state remains authoritative for the session.
func (s *CartService) commitLocked(ctx context.Context) {
	s.state.TotalItems = sumQuantities(s.state.Items)

	snapshot := s.snapshotLocked()
	if err := s.storage.Save(ctx, &snapshot); err != nil {
		log.Printf("[Cart] Failed to persist cart: %v", err)
	}

	if s.broker != nil {
		s.broker.Publish(events.TopicCart, nil)
	}
}

func (s *CartService) findLocked(code string) *domain.CartLine {
	for i := range s.state.Items {
		if s.state.Items[i].Code == code {
			return &s.state.Items[i]
		}
	}
	return nil
}

func (s *CartService) snapshotLocked() domain.CartState {
	items := make([]domain.CartLine, len(s.state.Items))
	copy(items, s.state.Items)
	return domain.CartState{Items: items, TotalItems: s.state.TotalItems}
}

func sumQuantities(lines []domain.CartLine) int {
	total := 0
	for _, line := range lines {
		total += line.Quantity
	}
	return total
}
