package cart

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/example/garment-storefront/internal/localstore"
	"github.com/example/garment-storefront/pkg/logger"
)

// Listener receives a copy of the full line-item list after every
// mutating call, strictly after the list has been written through to
// storage. Listeners must not call back into mutating operations.
type Listener func(items []LineItem)

// Store owns the in-session line-item list and mirrors it to a
// localstore.Storage on every mutation. It is the sole source of truth
// for the cart within a profile; separate processes sharing the same
// storage key are not coordinated and the last writer wins.
//
// Construct one Store at startup and pass it to whatever needs it.
// Callers run on a single UI event loop; the internal lock only shields
// concurrent readers from torn snapshots.
type Store struct {
	mu        sync.RWMutex
	storage   localstore.Storage
	items     []LineItem
	listeners map[int]Listener
	nextSub   int
}

// NewStore builds a Store and hydrates it with one read of the storage
// key. A missing or unparsable payload silently yields an empty cart.
// A nil storage is a wiring bug, not a runtime condition, and panics.
func NewStore(ctx context.Context, storage localstore.Storage) *Store {
	if storage == nil {
		panic("cart: NewStore requires a storage backend")
	}
	s := &Store{
		storage:   storage,
		listeners: make(map[int]Listener),
	}
	s.hydrate(ctx)
	return s
}

func (s *Store) hydrate(ctx context.Context) {
	data, err := s.storage.Load(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("cart: failed to read persisted cart, starting empty")
		return
	}
	if len(data) == 0 {
		return
	}
	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		logger.Warn().Err(err).Msg("cart: persisted cart is not a valid line item list, starting empty")
		return
	}
	s.items = items
}

// Add merges the candidate into an existing line item with the same
// (productId, size, color) or appends a new one with a fresh cartId.
// Candidates without a product ID or with a quantity below 1 are
// rejected as no-ops.
func (s *Store) Add(ctx context.Context, c Candidate) {
	if c.ProductID == "" || c.Quantity < 1 {
		return
	}

	s.mu.Lock()
	merged := false
	for i := range s.items {
		if s.items[i].merges(c) {
			s.items[i].Quantity += c.Quantity
			merged = true
			break
		}
	}
	if !merged {
		s.items = append(s.items, LineItem{
			CartID:    uuid.New().String(),
			ProductID: c.ProductID,
			Name:      c.Name,
			Image:     c.Image,
			Price:     c.Price,
			Size:      c.Size,
			Color:     c.Color,
			Quantity:  c.Quantity,
		})
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.notify(snapshot)
}

// Remove deletes the line item with the given cartId. An unknown cartId
// is a silent no-op; the list is still written through and subscribers
// are still notified.
func (s *Store) Remove(ctx context.Context, cartID string) {
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].CartID == cartID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.notify(snapshot)
}

// UpdateQuantity replaces the quantity of the line item with the given
// cartId. Quantities below 1 are rejected as no-ops: the floor is a
// deliberate reject, not a clamp and not a delete-on-zero. An unknown
// cartId is a silent no-op.
func (s *Store) UpdateQuantity(ctx context.Context, cartID string, quantity int) {
	if quantity < 1 {
		return
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].CartID == cartID {
			s.items[i].Quantity = quantity
			break
		}
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.notify(snapshot)
}

// Clear empties the list unconditionally and writes an empty list
// through to storage.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, snapshot)
	s.notify(snapshot)
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// TotalItems is the sum of quantities across all line items,
// recomputed on every call.
func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, li := range s.items {
		total += li.Quantity
	}
	return total
}

// TotalPrice is the sum of unit price times quantity across all line
// items, recomputed on every call.
func (s *Store) TotalPrice() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0.0
	for _, li := range s.items {
		total += li.Price * float64(li.Quantity)
	}
	return total
}

// Subscribe registers a listener for cart changes and returns an
// unsubscribe func.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) snapshotLocked() []LineItem {
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// persist writes the whole list through to storage. Write failures are
// logged and swallowed: the in-memory state stays authoritative for the
// rest of the session and the failure is never surfaced to the caller.
func (s *Store) persist(ctx context.Context, items []LineItem) {
	data, err := json.Marshal(items)
	if err != nil {
		logger.Error().Err(err).Msg("cart: failed to serialize line items")
		return
	}
	if err := s.storage.Save(ctx, data); err != nil {
		logger.Warn().Err(err).Msg("cart: persistence failed, keeping in-memory state")
	}
}

func (s *Store) notify(items []LineItem) {
	s.mu.RLock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.RUnlock()

	for _, l := range listeners {
		l(items)
	}
}
