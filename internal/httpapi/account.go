package httpapi

import (
	"net/http"

	"dbs-store/internal/order"
	"dbs-store/internal/utils"
)

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, order.ErrUnauthenticated)
		return
	}

	profile, err := h.users.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, order.ErrUnauthenticated)
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	profile, err := h.users.UpdateName(r.Context(), userID, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, profile)
}
