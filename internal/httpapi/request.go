package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"dbs-store/internal/auth"
	"dbs-store/internal/order"
	"dbs-store/internal/utils"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(w, "Requête invalide.")
		return false
	}
	return true
}

func requestMeta(r *http.Request) auth.RequestMeta {
	return auth.RequestMeta{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
}

// customer is the signed-in caller, or nil.
func customer(r *http.Request) *order.Customer {
	s, ok := utils.GetSessionFromContext(r.Context())
	if !ok {
		return nil
	}
	return &order.Customer{UserID: s.User.ID, EmailVerified: s.User.EmailVerified}
}

// requirePermission checks the store role set by the guard against an RBAC statement.
func requirePermission(resource auth.Resource, action auth.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := utils.GetStoreRole(r.Context())
			if !ok || !auth.HasPermission(role, resource, action) {
				writeError(w, r, auth.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
