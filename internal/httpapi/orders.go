package httpapi

import (
	"errors"
	"net/http"
	"net/url"

	"dbs-store/internal/logger"
	"dbs-store/internal/middleware"
	"dbs-store/internal/order"
	"dbs-store/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const checkoutPath = "/checkout"

type orderResponse struct {
	order.Order
	TotalFormatted string `json:"totalFormatted"`
}

func newOrderResponse(o order.Order) orderResponse {
	return orderResponse{Order: o, TotalFormatted: utils.FormatFCFA(o.Total)}
}

func newOrderResponses(orders []order.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, newOrderResponse(o))
	}
	return out
}

// createOrder places the order for the signed-in customer. Signed-out and
// unverified callers are sent to sign-in and email verification like the guard does.
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var input order.CheckoutInput
	if !decodeJSON(w, r, &input) {
		return
	}

	res, err := h.orders.Create(r.Context(), customer(r), input)
	switch {
	case errors.Is(err, order.ErrUnauthenticated):
		q := url.Values{}
		q.Set("callbackUrl", checkoutPath)
		http.Redirect(w, r, middleware.SignInPath+"?"+q.Encode(), http.StatusSeeOther)
		return
	case errors.Is(err, order.ErrEmailNotVerified):
		http.Redirect(w, r, middleware.UnverifiedPath, http.StatusSeeOther)
		return
	case err != nil:
		writeError(w, r, err)
		return
	}

	// the order is stored; a cart that fails to clear is only logged
	if id := h.cartID(w, r, false); id != "" {
		if err := h.cart.Clear(r.Context(), id); err != nil {
			logger.FromCtx(r.Context()).Warn("failed to clear cart after checkout",
				zap.String("order_id", res.OrderID),
				zap.Error(err),
			)
		}
	}

	utils.WriteJSON(w, http.StatusCreated, res)
}

// getOrderConfirmation serves the confirmation page data to the order owner.
func (h *Handler) getOrderConfirmation(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetForUser(r.Context(), customer(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, newOrderResponse(*o))
}

func (h *Handler) listMyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListForUser(r.Context(), customer(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, newOrderResponses(orders))
}

func (h *Handler) getMyOrder(w http.ResponseWriter, r *http.Request) {
	h.getOrderConfirmation(w, r)
}

func (h *Handler) adminListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := order.ListFilter{
		Limit: utils.ParseIntDefault(q.Get("limit"), 0),
		Page:  utils.ParseIntDefault(q.Get("page"), 1),
	}
	if s := q.Get("statut"); s != "" {
		status := order.Status(s)
		if !status.Valid() {
			writeError(w, r, order.ErrInvalidStatus)
			return
		}
		filter.Status = &status
	}

	orders, err := h.orders.ListAll(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, newOrderResponses(orders))
}

func (h *Handler) adminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status order.Status `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.orders.UpdateStatus(r.Context(), id, req.Status); err != nil {
		writeError(w, r, err)
		return
	}

	logger.FromCtx(r.Context()).Info("order status updated by admin",
		zap.String("order_id", id),
		zap.String("status", string(req.Status)),
	)
	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"id":          id,
		"status":      string(req.Status),
		"statusLabel": req.Status.Label(),
	})
}
