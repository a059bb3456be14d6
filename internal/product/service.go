package product

import (
	"context"
	"strings"

	"dbs-store/internal/category"
	"dbs-store/internal/logger"

	"go.uber.org/zap"
)

// Detail is a product page: the product and up to four siblings from its subcategory.
type Detail struct {
	Product Product   `json:"product"`
	Related []Product `json:"related"`
}

type Service interface {
	ListByCategory(ctx context.Context, categoryID string, filters Filters) ([]Product, error)
	GetDetail(ctx context.Context, slug string) (*Detail, error)
	ListPromo(ctx context.Context, limit int) ([]Product, error)
	Create(ctx context.Context, p *Product) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListByCategory(ctx context.Context, categoryID string, filters Filters) ([]Product, error) {
	if filters.PriceMin != nil && filters.PriceMax != nil && *filters.PriceMin > *filters.PriceMax {
		return []Product{}, nil
	}
	return s.repo.ListByCategory(ctx, categoryID, filters)
}

func (s *service) GetDetail(ctx context.Context, slug string) (*Detail, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	detail := &Detail{Product: *p, Related: []Product{}}
	if p.SubcategoryID == nil {
		return detail, nil
	}

	related, err := s.repo.ListRelated(ctx, p.ID, *p.SubcategoryID)
	if err != nil {
		// the page still renders without recommendations
		logger.FromCtx(ctx).Warn("failed to load related products",
			zap.String("product_id", p.ID),
			zap.Error(err),
		)
		return detail, nil
	}
	detail.Related = related

	return detail, nil
}

func (s *service) ListPromo(ctx context.Context, limit int) ([]Product, error) {
	return s.repo.ListPromo(ctx, limit)
}

// Create adds a product to the catalog. The category must be a top-level
// category and the subcategory, when set, one of its children.
func (s *service) Create(ctx context.Context, p *Product) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" || p.Stock < 0 {
		return ErrInvalidProduct
	}
	if p.Price < 0 || (p.OldPrice != nil && *p.OldPrice < 0) {
		return ErrInvalidPrice
	}

	cat, ok := category.ByID(p.CategoryID)
	if !ok || !cat.IsTopLevel() {
		return ErrUnknownCategory
	}
	if p.SubcategoryID != nil {
		sub, ok := category.ByID(*p.SubcategoryID)
		if !ok || sub.ParentID == nil || *sub.ParentID != cat.ID {
			return ErrUnknownCategory
		}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	logger.FromCtx(ctx).Info("product created",
		zap.String("product_id", p.ID),
		zap.String("slug", p.Slug),
	)
	return nil
}
