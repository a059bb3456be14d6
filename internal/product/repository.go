package product

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"dbs-store/internal/logger"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

const relatedLimit = 4

const productColumns = `id, name, slug, category_id, subcategory_id, price, old_price, brand,
	images, description, specs, stock, badge, is_active, created_at`

type Repository interface {
	ListByCategory(ctx context.Context, categoryID string, filters Filters) ([]Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	ListRelated(ctx context.Context, productID, subcategoryID string) ([]Product, error)
	ListPromo(ctx context.Context, limit int) ([]Product, error)
	GetPricesByIDs(ctx context.Context, ids []string) (map[string]PriceRecord, error)
	Create(ctx context.Context, p *Product) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListByCategory(
	ctx context.Context,
	categoryID string,
	filters Filters,
) ([]Product, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListByCategory"),
		zap.String("category_id", categoryID),
	)

	where := []string{"(category_id = $1 OR subcategory_id = $1)", "is_active = TRUE"}
	args := []any{categoryID}

	if filters.Brand != "" {
		args = append(args, filters.Brand)
		where = append(where, fmt.Sprintf("brand = $%d", len(args)))
	}
	if filters.PriceMin != nil {
		args = append(args, *filters.PriceMin)
		where = append(where, fmt.Sprintf("price >= $%d", len(args)))
	}
	if filters.PriceMax != nil {
		args = append(args, *filters.PriceMax)
		where = append(where, fmt.Sprintf("price <= $%d", len(args)))
	}

	orderBy := "created_at DESC"
	switch filters.Sort {
	case SortPriceAsc:
		orderBy = "price ASC"
	case SortPriceDesc:
		orderBy = "price DESC"
	}

	query := "SELECT " + productColumns + " FROM products WHERE " +
		strings.Join(where, " AND ") + " ORDER BY " + orderBy

	log.Debug("executing list by category query", zap.String("query", query), zap.Any("args", args))

	products, err := r.queryProducts(ctx, query, args...)
	if err != nil {
		log.Error("failed to list products by category", zap.Error(err))
		return nil, err
	}
	return products, nil
}

func (r *repository) GetBySlug(ctx context.Context, productSlug string) (*Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE slug = $1 AND is_active = TRUE LIMIT 1"

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, productSlug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get product by slug",
			zap.String("slug", productSlug),
			zap.Error(err),
		)
		return nil, err
	}
	return p, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE id = $1 AND is_active = TRUE"

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get product by id",
			zap.String("product_id", id),
			zap.Error(err),
		)
		return nil, err
	}
	return p, nil
}

func (r *repository) ListRelated(ctx context.Context, productID, subcategoryID string) ([]Product, error) {
	query := "SELECT " + productColumns + ` FROM products
		WHERE subcategory_id = $1 AND id <> $2 AND is_active = TRUE
		LIMIT $3`

	return r.queryProducts(ctx, query, subcategoryID, productID, relatedLimit)
}

func (r *repository) ListPromo(ctx context.Context, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = 4
	}
	query := "SELECT " + productColumns + ` FROM products
		WHERE old_price IS NOT NULL AND is_active = TRUE
		ORDER BY created_at DESC
		LIMIT $1`

	return r.queryProducts(ctx, query, limit)
}

// GetPricesByIDs fetches the authoritative price and active flag of every id in one query.
// Unknown ids are simply absent from the result.
func (r *repository) GetPricesByIDs(ctx context.Context, ids []string) (map[string]PriceRecord, error) {
	prices := make(map[string]PriceRecord, len(ids))
	if len(ids) == 0 {
		return prices, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, price, is_active FROM products WHERE id = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to fetch product prices",
			zap.Int("id_count", len(ids)),
			zap.Error(err),
		)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var pr PriceRecord
		if err := rows.Scan(&pr.ID, &pr.Price, &pr.IsActive); err != nil {
			return nil, err
		}
		prices[pr.ID] = pr
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return prices, nil
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	if p.Price < 0 {
		return ErrInvalidPrice
	}
	if p.Slug == "" {
		p.Slug = slug.Make(p.Name)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}

	images, err := json.Marshal(nonNilImages(p.Images))
	if err != nil {
		return err
	}
	specs, err := json.Marshal(nonNilSpecs(p.Specs))
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO products (
			id, name, slug, category_id, subcategory_id, price, old_price, brand,
			images, description, specs, stock, badge, is_active, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`,
		p.ID, p.Name, p.Slug, p.CategoryID, p.SubcategoryID, p.Price, p.OldPrice, p.Brand,
		string(images), p.Description, string(specs), p.Stock, p.Badge, p.IsActive, p.CreatedAt,
	)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to insert product",
			zap.String("slug", p.Slug),
			zap.Error(err),
		)
	}
	return err
}

func (r *repository) queryProducts(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*Product, error) {
	var (
		p      Product
		images string
		specs  string
		badge  sql.NullString
	)

	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.CategoryID, &p.SubcategoryID, &p.Price, &p.OldPrice, &p.Brand,
		&images, &p.Description, &specs, &p.Stock, &badge, &p.IsActive, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if badge.Valid {
		b := Badge(badge.String)
		p.Badge = &b
	}
	p.Images = parseImages(p.Slug, images)
	p.Specs = parseSpecs(p.Slug, specs)

	return &p, nil
}

// parseImages decodes the JSON image list. Bad data is logged and yields no images.
func parseImages(productSlug, raw string) []string {
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		logger.L().Error("invalid JSON in product images", zap.String("slug", productSlug))
		return []string{}
	}

	list, ok := decoded.([]any)
	if !ok {
		logger.L().Error("product images is not an array", zap.String("slug", productSlug))
		return []string{}
	}

	images := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			images = append(images, s)
		}
	}
	return images
}

// parseSpecs decodes the JSON spec sheet. Bad data is logged and yields an empty sheet.
func parseSpecs(productSlug, raw string) map[string]string {
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		logger.L().Error("invalid JSON in product specs", zap.String("slug", productSlug))
		return map[string]string{}
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		logger.L().Error("product specs is not an object", zap.String("slug", productSlug))
		return map[string]string{}
	}

	specs := make(map[string]string, len(obj))
	for k, v := range obj {
		if s, ok := v.(string); ok {
			specs[k] = s
		} else {
			specs[k] = fmt.Sprint(v)
		}
	}
	return specs
}

func nonNilImages(images []string) []string {
	if images == nil {
		return []string{}
	}
	return images
}

func nonNilSpecs(specs map[string]string) map[string]string {
	if specs == nil {
		return map[string]string{}
	}
	return specs
}
