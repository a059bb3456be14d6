package httpapi

import (
	"errors"
	"net/http"

	"dbs-store/internal/auth"
	"dbs-store/internal/cart"
	"dbs-store/internal/logger"
	"dbs-store/internal/order"
	"dbs-store/internal/product"
	"dbs-store/internal/user"
	"dbs-store/internal/utils"

	"go.uber.org/zap"
)

const (
	codeInternal      = "INTERNAL_ERROR"
	codeBadRequest    = "BAD_REQUEST"
	codeNotFound      = "NOT_FOUND"
	codeOrderNotFound = "ORDER_NOT_FOUND"
	codeInvalidStatus = "INVALID_STATUS"
	codeNotInCart     = "ITEM_NOT_IN_CART"

	msgInternal = "Une erreur est survenue. Veuillez réessayer."
)

var orderMessages = map[string]string{
	order.CodeEmptyCart:                "Votre panier est vide.",
	order.CodeInvalidQuantity:          "Quantité invalide.",
	order.CodeInvalidInput:             "Informations de livraison invalides.",
	order.CodeUnsupportedPaymentMethod: "Seul le paiement à la livraison est disponible pour le moment.",
	order.CodeProductNotFound:          "Un produit de votre panier n'est plus disponible.",
}

var authStatuses = map[string]int{
	auth.CodeInvalidCredentials: http.StatusUnauthorized,
	auth.CodeUnauthorized:       http.StatusUnauthorized,
	auth.CodeSessionExpired:     http.StatusUnauthorized,
	auth.CodeUserAlreadyExists:  http.StatusConflict,
	auth.CodeForbidden:          http.StatusForbidden,
	auth.CodeProviderNotFound:   http.StatusNotFound,
	auth.CodeTooManyAttempts:    http.StatusTooManyRequests,
}

// writeError maps a service error to its status and JSON body. Unknown errors
// are logged and hidden behind a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var oe *order.Error
	if errors.As(err, &oe) {
		status := http.StatusBadRequest
		if oe.Code == order.CodeProductNotFound {
			status = http.StatusConflict
		}
		utils.WriteJSONError(w, status, oe.Error(), orderMessages[oe.Code])
		return
	}

	var ae *auth.Error
	if errors.As(err, &ae) {
		status, ok := authStatuses[ae.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		utils.WriteJSONError(w, status, ae.Code, ae.Message())
		return
	}

	switch {
	case errors.Is(err, product.ErrProductNotFound):
		utils.WriteJSONError(w, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Produit introuvable.")
	case errors.Is(err, product.ErrInvalidProduct),
		errors.Is(err, product.ErrInvalidPrice),
		errors.Is(err, product.ErrUnknownCategory):
		utils.WriteJSONError(w, http.StatusBadRequest, "INVALID_PRODUCT", "Produit invalide.")
	case errors.Is(err, cart.ErrItemNotInCart):
		utils.WriteJSONError(w, http.StatusNotFound, codeNotInCart, "Cet article n'est pas dans votre panier.")
	case errors.Is(err, cart.ErrMissingProductID):
		utils.WriteJSONError(w, http.StatusBadRequest, codeBadRequest, "Produit manquant.")
	case errors.Is(err, order.ErrOrderNotFound):
		utils.WriteJSONError(w, http.StatusNotFound, codeOrderNotFound, "Commande introuvable.")
	case errors.Is(err, order.ErrInvalidStatus):
		utils.WriteJSONError(w, http.StatusBadRequest, codeInvalidStatus, "Statut de commande invalide.")
	case errors.Is(err, order.ErrUnauthenticated):
		utils.WriteJSONError(w, http.StatusUnauthorized, auth.CodeUnauthorized, auth.TranslateError(auth.CodeUnauthorized, ""))
	case errors.Is(err, order.ErrEmailNotVerified):
		utils.WriteJSONError(w, http.StatusForbidden, "EMAIL_NOT_VERIFIED", "Veuillez vérifier votre adresse email.")
	case errors.Is(err, user.ErrInvalidName):
		utils.WriteJSONError(w, http.StatusBadRequest, auth.CodeInvalidName, auth.TranslateError(auth.CodeInvalidName, ""))
	case errors.Is(err, user.ErrUserNotFound):
		utils.WriteJSONError(w, http.StatusNotFound, codeNotFound, "Compte introuvable.")
	default:
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		utils.WriteJSONError(w, http.StatusInternalServerError, codeInternal, msgInternal)
	}
}

func writeBadRequest(w http.ResponseWriter, message string) {
	utils.WriteJSONError(w, http.StatusBadRequest, codeBadRequest, message)
}
