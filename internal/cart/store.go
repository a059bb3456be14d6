package cart

import (
	"context"
	"encoding/json"
	"sync"

	"dbs-store/internal/logger"

	"go.uber.org/zap"
)

// Store is the state of one cart. Every mutation is written through to Storage.
// Storage failures are logged and never surface to the caller: the in-memory
// state stays authoritative for the rest of the request.
type Store struct {
	mu      sync.Mutex
	storage Storage
	key     string
	items   []Item
}

// NewStore loads the cart persisted under cartID. A missing, corrupt or
// unknown-version payload yields an empty cart.
func NewStore(ctx context.Context, storage Storage, cartID string) *Store {
	s := &Store{storage: storage, key: StorageKey(cartID), items: []Item{}}
	s.hydrate(ctx)
	return s
}

func (s *Store) hydrate(ctx context.Context) {
	log := logger.FromCtx(ctx).With(zap.String("cart_key", s.key))

	raw, found, err := s.storage.Get(ctx, s.key)
	if err != nil {
		log.Error("failed to read cart", zap.Error(err))
		return
	}
	if !found {
		return
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		log.Warn("corrupt cart payload, resetting", zap.Error(err))
		s.reset(ctx)
		return
	}
	if env.Version != storageVersion {
		log.Warn("unknown cart version, resetting", zap.Int("version", env.Version))
		s.reset(ctx)
		return
	}

	for _, it := range env.Items {
		if it.ProductID == "" || it.Quantity < 1 {
			log.Warn("dropping invalid cart item", zap.String("product_id", it.ProductID))
			continue
		}
		s.items = append(s.items, it)
	}
}

func (s *Store) reset(ctx context.Context) {
	s.items = []Item{}
	if err := s.storage.Remove(ctx, s.key); err != nil {
		logger.FromCtx(ctx).Error("failed to remove cart", zap.String("cart_key", s.key), zap.Error(err))
	}
}

func (s *Store) persist(ctx context.Context) {
	raw, err := json.Marshal(envelope{Version: storageVersion, Items: s.items})
	if err != nil {
		logger.FromCtx(ctx).Error("failed to encode cart", zap.Error(err))
		return
	}
	if err := s.storage.Set(ctx, s.key, string(raw)); err != nil {
		logger.FromCtx(ctx).Error("failed to write cart", zap.String("cart_key", s.key), zap.Error(err))
	}
}

func (s *Store) indexOf(productID string) int {
	for i, it := range s.items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

// AddItem increments the quantity of an existing line by one, or appends the
// item with quantity 1. The incoming quantity is ignored.
func (s *Store) AddItem(ctx context.Context, item Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(item.ProductID); i >= 0 {
		s.items[i].Quantity++
	} else {
		item.Quantity = 1
		s.items = append(s.items, item)
	}
	s.persist(ctx)
}

// SetQuantity overwrites a line's quantity. q <= 0 removes the line.
func (s *Store) SetQuantity(ctx context.Context, productID string, q int) {
	if q <= 0 {
		s.RemoveItem(ctx, productID)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return
	}
	s.items[i].Quantity = q
	s.persist(ctx)
}

func (s *Store) RemoveItem(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID)
	if i < 0 {
		return
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.persist(ctx)
}

func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []Item{}
	s.persist(ctx)
}

func (s *Store) Has(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(productID) >= 0
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	for _, it := range s.items {
		total += it.Price * int64(it.Quantity)
	}
	return total
}

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, it := range s.items {
		count += it.Quantity
	}
	return count
}

func (s *Store) View() View {
	return View{Items: s.Items(), Total: s.Total(), Count: s.Count()}
}
