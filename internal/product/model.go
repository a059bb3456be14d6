package product

import "time"

type Badge string

const (
	BadgeNew     Badge = "Nouveau"
	BadgePopular Badge = "Populaire"
	BadgePromo   Badge = "Promo"
)

type Product struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Slug          string            `json:"slug"`
	CategoryID    string            `json:"categoryId"`
	SubcategoryID *string           `json:"subcategoryId"`
	Price         int64             `json:"price"`
	OldPrice      *int64            `json:"oldPrice"`
	Brand         string            `json:"brand"`
	Images        []string          `json:"images"`
	Description   string            `json:"description"`
	Specs         map[string]string `json:"specs"`
	Stock         int               `json:"stock"`
	Badge         *Badge            `json:"badge"`
	IsActive      bool              `json:"isActive"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// MainImage is the image copied onto cart lines and order snapshots.
func (p Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

type SortOrder string

const (
	SortNewest    SortOrder = "nouveau"
	SortPriceAsc  SortOrder = "prix_asc"
	SortPriceDesc SortOrder = "prix_desc"
)

// Filters narrows a category listing. Zero values mean "no filter".
type Filters struct {
	Brand    string
	PriceMin *int64
	PriceMax *int64
	Sort     SortOrder
}

// PriceRecord is the authoritative pricing state of a product at checkout time.
type PriceRecord struct {
	ID       string
	Price    int64
	IsActive bool
}
