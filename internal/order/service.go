package order

import (
	"context"
	"errors"

	"dbs-store/internal/logger"
	"dbs-store/internal/metrics"
	"dbs-store/internal/product"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// PriceLookup fetches authoritative prices in one round trip.
type PriceLookup interface {
	GetPricesByIDs(ctx context.Context, ids []string) (map[string]product.PriceRecord, error)
}

type Service interface {
	Create(ctx context.Context, customer *Customer, input CheckoutInput) (*CreateResult, error)
	ListForUser(ctx context.Context, customer *Customer) ([]Order, error)
	GetForUser(ctx context.Context, customer *Customer, orderID string) (*Order, error)
	ListAll(ctx context.Context, filter ListFilter) ([]Order, error)
	UpdateStatus(ctx context.Context, orderID string, status Status) error
}

type service struct {
	repo     Repository
	prices   PriceLookup
	validate *validator.Validate
}

func NewService(repo Repository, prices PriceLookup, validate *validator.Validate) Service {
	if validate == nil {
		validate = validator.New()
	}
	return &service{repo: repo, prices: prices, validate: validate}
}

func requireCustomer(c *Customer) error {
	if c == nil || c.UserID == "" {
		return ErrUnauthenticated
	}
	if !c.EmailVerified {
		return ErrEmailNotVerified
	}
	return nil
}

// Create validates the checkout, re-prices every line from the product table
// and stores the order atomically. Nothing is written on any failure.
func (s *service) Create(ctx context.Context, customer *Customer, input CheckoutInput) (*CreateResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
		zap.Int("item_count", len(input.Items)),
	)

	if err := requireCustomer(customer); err != nil {
		return nil, s.fail(log, err)
	}
	log = log.With(zap.String("user_id", customer.UserID))

	// 1️⃣ Input checks, before any I/O
	if err := ValidateCheckout(s.validate, &input); err != nil {
		return nil, s.fail(log, err)
	}

	// 2️⃣ Authoritative prices in one query
	prices, err := s.prices.GetPricesByIDs(ctx, ProductIDs(input.Items))
	if err != nil {
		return nil, s.fail(log, err)
	}

	// 3️⃣ Re-price and assemble
	o, err := BuildOrder(customer.UserID, input, prices)
	if err != nil {
		return nil, s.fail(log, err)
	}
	log = log.With(zap.String("order_id", o.ID))

	// 4️⃣ Header + items in one transaction
	if err := s.repo.CreateOrderTx(ctx, o); err != nil {
		return nil, s.fail(log, err)
	}

	metrics.OrdersCreated.Inc()
	log.Info("order created",
		zap.Int64("subtotal", o.Subtotal),
		zap.Int64("total", o.Total),
	)

	return &CreateResult{OrderID: o.ID}, nil
}

func (s *service) fail(log *zap.Logger, err error) error {
	reason := "storage"
	var oe *Error
	switch {
	case errors.As(err, &oe):
		reason = oe.Reason()
		log.Warn("order rejected", zap.String("code", oe.Code), zap.String("product_id", oe.ProductID))
	case errors.Is(err, ErrUnauthenticated):
		reason = "unauthenticated"
		log.Warn("order rejected", zap.Error(err))
	case errors.Is(err, ErrEmailNotVerified):
		reason = "email_not_verified"
		log.Warn("order rejected", zap.Error(err))
	default:
		log.Error("order creation failed", zap.Error(err))
	}
	metrics.OrderFailures.WithLabelValues(reason).Inc()
	return err
}

func (s *service) ListForUser(ctx context.Context, customer *Customer) ([]Order, error) {
	if customer == nil || customer.UserID == "" {
		return nil, ErrUnauthenticated
	}
	return s.repo.ListForUser(ctx, customer.UserID)
}

func (s *service) GetForUser(ctx context.Context, customer *Customer, orderID string) (*Order, error) {
	if customer == nil || customer.UserID == "" {
		return nil, ErrUnauthenticated
	}
	if orderID == "" {
		return nil, ErrOrderNotFound
	}
	return s.repo.GetForUser(ctx, customer.UserID, orderID)
}

func (s *service) ListAll(ctx context.Context, filter ListFilter) ([]Order, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.repo.ListAll(ctx, filter)
}

func (s *service) UpdateStatus(ctx context.Context, orderID string, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		return err
	}
	logger.FromCtx(ctx).Info("order status updated",
		zap.String("order_id", orderID),
		zap.String("status", string(status)),
	)
	return nil
}
