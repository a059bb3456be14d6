package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"dbs-store/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	CreateOrderTx(ctx context.Context, o *Order) error
	ListForUser(ctx context.Context, userID string) ([]Order, error)
	GetForUser(ctx context.Context, userID, orderID string) (*Order, error)
	ListAll(ctx context.Context, filter ListFilter) ([]Order, error)
	UpdateStatus(ctx context.Context, orderID string, status Status) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `id, user_id, status, payment_method, payment_status,
	shipping_name, shipping_phone, shipping_city, shipping_address, shipping_notes,
	subtotal, shipping_fee, total, created_at, updated_at`

// CreateOrderTx writes the order header and all of its items in one
// transaction. Either everything is committed or nothing is.
func (r *repository) CreateOrderTx(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderTx"),
		zap.String("order_id", o.ID),
		zap.Int("item_count", len(o.Items)),
	)

	log.Debug("starting order transaction")

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			} else {
				log.Debug("transaction rolled back")
			}
		}
	}()

	now := time.Now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = o.CreatedAt

	// Insert order header
	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, user_id, status, payment_method, payment_status,
			shipping_name, shipping_phone, shipping_city, shipping_address, shipping_notes,
			subtotal, shipping_fee, total, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`,
		o.ID,
		o.UserID,
		o.Status,
		o.PaymentMethod,
		o.PaymentStatus,
		o.ShippingName,
		o.ShippingPhone,
		o.ShippingCity,
		o.ShippingAddress,
		o.ShippingNotes,
		o.Subtotal,
		o.ShippingFee,
		o.Total,
		o.CreatedAt,
		o.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	// Insert order items
	for i, item := range o.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (
				id, order_id, product_id, product_name, product_slug,
				product_image, unit_price, quantity, line_total
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		`,
			item.ID,
			o.ID,
			item.ProductID,
			item.ProductName,
			item.ProductSlug,
			item.ProductImage,
			item.UnitPrice,
			item.Quantity,
			item.LineTotal,
		)
		if err != nil {
			log.Error("failed to insert order item",
				zap.Int("item_index", i),
				zap.String("product_id", item.ProductID),
				zap.Error(err),
			)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return err
	}

	committed = true
	log.Info("order transaction committed")

	return nil
}

func (r *repository) ListForUser(ctx context.Context, userID string) ([]Order, error) {
	query := "SELECT " + orderColumns + " FROM orders WHERE user_id = $1 ORDER BY created_at DESC"

	orders, err := r.queryOrders(ctx, query, userID)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list user orders", zap.Error(err))
		return nil, err
	}
	return orders, nil
}

// GetForUser loads one of the user's orders with its items. An order owned by
// someone else is reported as not found.
func (r *repository) GetForUser(ctx context.Context, userID, orderID string) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetForUser"),
		zap.String("order_id", orderID),
	)

	query := "SELECT " + orderColumns + " FROM orders WHERE id = $1 AND user_id = $2"

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, orderID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		log.Error("failed to get order", zap.Error(err))
		return nil, err
	}

	items, err := r.listItems(ctx, o.ID)
	if err != nil {
		log.Error("failed to get order items", zap.Error(err))
		return nil, err
	}
	if len(items) == 0 {
		log.Error("order has no items, possible partial DB write")
		return nil, ErrOrderNotFound
	}
	o.Items = items

	return o, nil
}

func (r *repository) ListAll(ctx context.Context, filter ListFilter) ([]Order, error) {
	limit, offset := filter.normalized()

	var (
		where []string
		args  []any
	)
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	query := "SELECT " + orderColumns + " FROM orders"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	orders, err := r.queryOrders(ctx, query, args...)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list orders", zap.Error(err))
		return nil, err
	}
	return orders, nil
}

func (r *repository) UpdateStatus(ctx context.Context, orderID string, status Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, orderID,
	)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to update order status",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *repository) listItems(ctx context.Context, orderID string) ([]OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, product_id, product_name, product_slug,
			product_image, unit_price, quantity, line_total
		FROM order_items
		WHERE order_id = $1
		ORDER BY product_name
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []OrderItem{}
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.ProductSlug,
			&it.ProductImage, &it.UnitPrice, &it.Quantity, &it.LineTotal,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repository) queryOrders(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var (
		o     Order
		notes sql.NullString
	)
	err := row.Scan(
		&o.ID, &o.UserID, &o.Status, &o.PaymentMethod, &o.PaymentStatus,
		&o.ShippingName, &o.ShippingPhone, &o.ShippingCity, &o.ShippingAddress, &notes,
		&o.Subtotal, &o.ShippingFee, &o.Total, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if notes.Valid {
		o.ShippingNotes = &notes.String
	}
	o.StatusLabel = o.Status.Label()
	return &o, nil
}
