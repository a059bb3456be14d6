package httpapi

import (
	"net/http"

	"dbs-store/internal/category"
	"dbs-store/internal/product"
	"dbs-store/internal/utils"

	"github.com/go-chi/chi/v5"
)

const promoLimit = 8

type categoryResponse struct {
	category.Category
	Subcategories []category.Category `json:"subcategories"`
}

// productResponse adds the display price to a product.
type productResponse struct {
	product.Product
	PriceFormatted string `json:"priceFormatted"`
}

func toProductResponses(ps []product.Product) []productResponse {
	out := make([]productResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, productResponse{Product: p, PriceFormatted: utils.FormatFCFA(p.Price)})
	}
	return out
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	top := category.TopLevel()
	out := make([]categoryResponse, 0, len(top))
	for _, c := range top {
		out = append(out, categoryResponse{Category: c, Subcategories: category.Subcategories(c.ID)})
	}
	utils.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) getCategory(w http.ResponseWriter, r *http.Request) {
	c, ok := category.BySlug(chi.URLParam(r, "slug"))
	if !ok {
		utils.WriteJSONError(w, http.StatusNotFound, "CATEGORY_NOT_FOUND", "Catégorie introuvable.")
		return
	}
	utils.WriteJSON(w, http.StatusOK, categoryResponse{Category: c, Subcategories: category.Subcategories(c.ID)})
}

// listCategoryProducts serves a category page with the marque, prix_min,
// prix_max and tri query filters.
func (h *Handler) listCategoryProducts(w http.ResponseWriter, r *http.Request) {
	c, ok := category.BySlug(chi.URLParam(r, "slug"))
	if !ok {
		utils.WriteJSONError(w, http.StatusNotFound, "CATEGORY_NOT_FOUND", "Catégorie introuvable.")
		return
	}

	q := r.URL.Query()
	minPrice, err := utils.ParseInt64Ptr(q.Get("prix_min"))
	if err != nil {
		writeBadRequest(w, "Prix minimum invalide.")
		return
	}
	maxPrice, err := utils.ParseInt64Ptr(q.Get("prix_max"))
	if err != nil {
		writeBadRequest(w, "Prix maximum invalide.")
		return
	}

	filters := product.Filters{
		Brand:    q.Get("marque"),
		PriceMin: minPrice,
		PriceMax: maxPrice,
		Sort:     product.SortOrder(q.Get("tri")),
	}

	products, err := h.products.ListByCategory(r.Context(), c.ID, filters)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, toProductResponses(products))
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	detail, err := h.products.GetDetail(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"product": productResponse{Product: detail.Product, PriceFormatted: utils.FormatFCFA(detail.Product.Price)},
		"related": toProductResponses(detail.Related),
	})
}

func (h *Handler) listOffers(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListPromo(r.Context(), utils.ParseIntDefault(r.URL.Query().Get("limit"), promoLimit))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, toProductResponses(products))
}

type createProductRequest struct {
	Name          string            `json:"name"`
	CategoryID    string            `json:"categoryId"`
	SubcategoryID *string           `json:"subcategoryId"`
	Price         int64             `json:"price"`
	OldPrice      *int64            `json:"oldPrice"`
	Brand         string            `json:"brand"`
	Images        []string          `json:"images"`
	Description   string            `json:"description"`
	Specs         map[string]string `json:"specs"`
	Stock         int               `json:"stock"`
	Badge         *product.Badge    `json:"badge"`
}

func (h *Handler) adminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p := &product.Product{
		Name:          req.Name,
		CategoryID:    req.CategoryID,
		SubcategoryID: req.SubcategoryID,
		Price:         req.Price,
		OldPrice:      req.OldPrice,
		Brand:         req.Brand,
		Images:        req.Images,
		Description:   req.Description,
		Specs:         req.Specs,
		Stock:         req.Stock,
		Badge:         req.Badge,
		IsActive:      true,
	}
	if err := h.products.Create(r.Context(), p); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, productResponse{Product: *p, PriceFormatted: utils.FormatFCFA(p.Price)})
}
