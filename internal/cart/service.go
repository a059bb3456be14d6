package cart

import (
	"context"
	"sync"

	"dbs-store/internal/logger"
	"dbs-store/internal/product"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

// ProductFinder resolves the active product snapshotted on add-to-cart.
type ProductFinder interface {
	GetByID(ctx context.Context, id string) (*product.Product, error)
}

// Service defines the cart operations exposed over HTTP.
type Service interface {
	Get(ctx context.Context, cartID string) (View, error)
	AddItem(ctx context.Context, cartID, productID string) (View, error)
	SetQuantity(ctx context.Context, cartID, productID string, quantity int) (View, error)
	RemoveItem(ctx context.Context, cartID, productID string) (View, error)
	Clear(ctx context.Context, cartID string) error
}

type service struct {
	storage  Storage
	products ProductFinder

	// a fixed set of locks shared by hash, so parallel requests on the same
	// cart serialize and unknown ids cost no memory
	locks [lockStripes]sync.Mutex
}

const lockStripes = 256

func NewService(storage Storage, products ProductFinder) Service {
	return &service{storage: storage, products: products}
}

func (s *service) lock(cartID string) func() {
	mu := &s.locks[stripe(cartID)]
	mu.Lock()
	return mu.Unlock
}

func stripe(cartID string) uint64 {
	return xxhash.Sum64String(cartID) % lockStripes
}

func (s *service) Get(ctx context.Context, cartID string) (View, error) {
	if cartID == "" {
		return View{Items: []Item{}}, nil
	}
	unlock := s.lock(cartID)
	defer unlock()

	return NewStore(ctx, s.storage, cartID).View(), nil
}

func (s *service) AddItem(ctx context.Context, cartID, productID string) (View, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddItem"),
		zap.String("product_id", productID),
	)

	if cartID == "" {
		return View{}, ErrMissingCartID
	}
	if productID == "" {
		return View{}, ErrMissingProductID
	}

	// 1️⃣ Only active products can be added
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		log.Warn("add to cart rejected", zap.Error(err))
		return View{}, err
	}

	// 2️⃣ Merge into the stored cart
	unlock := s.lock(cartID)
	defer unlock()

	store := NewStore(ctx, s.storage, cartID)
	store.AddItem(ctx, Item{
		ProductID: p.ID,
		Slug:      p.Slug,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.MainImage(),
	})

	log.Info("item added to cart", zap.Int("count", store.Count()))
	return store.View(), nil
}

func (s *service) SetQuantity(ctx context.Context, cartID, productID string, quantity int) (View, error) {
	if cartID == "" {
		return View{}, ErrMissingCartID
	}
	unlock := s.lock(cartID)
	defer unlock()

	store := NewStore(ctx, s.storage, cartID)
	if !store.Has(productID) {
		return View{}, ErrItemNotInCart
	}
	store.SetQuantity(ctx, productID, quantity)
	return store.View(), nil
}

func (s *service) RemoveItem(ctx context.Context, cartID, productID string) (View, error) {
	if cartID == "" {
		return View{}, ErrMissingCartID
	}
	unlock := s.lock(cartID)
	defer unlock()

	store := NewStore(ctx, s.storage, cartID)
	store.RemoveItem(ctx, productID)
	return store.View(), nil
}

func (s *service) Clear(ctx context.Context, cartID string) error {
	if cartID == "" {
		return nil
	}
	unlock := s.lock(cartID)
	defer unlock()

	NewStore(ctx, s.storage, cartID).Clear(ctx)
	return nil
}
