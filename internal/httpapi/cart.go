package httpapi

import (
	"net/http"
	"time"

	"dbs-store/internal/cart"
	"dbs-store/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	cartCookieName = "dbs_cart"
	cartCookieTTL  = 30 * 24 * time.Hour
)

type cartResponse struct {
	cart.View
	TotalFormatted string `json:"totalFormatted"`
}

func newCartResponse(v cart.View) cartResponse {
	if v.Items == nil {
		v.Items = []cart.Item{}
	}
	return cartResponse{View: v, TotalFormatted: utils.FormatFCFA(v.Total)}
}

// cartID reads the cart cookie. With create set, a missing or malformed id is
// replaced by a new one and the cookie is written.
func (h *Handler) cartID(w http.ResponseWriter, r *http.Request, create bool) string {
	if c, err := r.Cookie(cartCookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	if !create {
		return ""
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     cartCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(cartCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	id := h.cartID(w, r, false)
	if id == "" {
		utils.WriteJSON(w, http.StatusOK, newCartResponse(cart.View{}))
		return
	}

	view, err := h.cart.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, newCartResponse(view))
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if id := h.cartID(w, r, false); id != "" {
		if err := h.cart.Clear(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
	}
	utils.WriteJSON(w, http.StatusOK, newCartResponse(cart.View{}))
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	view, err := h.cart.AddItem(r.Context(), h.cartID(w, r, true), req.ProductID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, newCartResponse(view))
}

func (h *Handler) setCartItemQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity *int `json:"quantity"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Quantity == nil {
		writeBadRequest(w, "Quantité manquante.")
		return
	}

	id := h.cartID(w, r, false)
	if id == "" {
		writeError(w, r, cart.ErrItemNotInCart)
		return
	}

	view, err := h.cart.SetQuantity(r.Context(), id, chi.URLParam(r, "productId"), *req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, newCartResponse(view))
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	id := h.cartID(w, r, false)
	if id == "" {
		utils.WriteJSON(w, http.StatusOK, newCartResponse(cart.View{}))
		return
	}

	view, err := h.cart.RemoveItem(r.Context(), id, chi.URLParam(r, "productId"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, newCartResponse(view))
}
