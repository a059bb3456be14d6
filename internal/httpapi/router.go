package httpapi

import (
	"net/http"
	"net/netip"
	"time"

	"dbs-store/internal/auth"
	"dbs-store/internal/cart"
	"dbs-store/internal/logger"
	"dbs-store/internal/middleware"
	"dbs-store/internal/order"
	"dbs-store/internal/product"
	"dbs-store/internal/user"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Products product.Service
	Cart     cart.Service
	Orders   order.Service
	Auth     auth.Service
	Users    user.Service
	Limiter  *middleware.RateLimiter

	FrontendOrigin string
	TrustedProxies []netip.Prefix
	SecureCookies  bool
	SessionTTL     time.Duration
}

type Handler struct {
	products product.Service
	cart     cart.Service
	orders   order.Service
	auth     auth.Service
	users    user.Service
	limiter  *middleware.RateLimiter

	secureCookies bool
	sessionTTL    time.Duration
}

// NewRouter mounts every route of the store API.
func NewRouter(d Deps) http.Handler {
	h := &Handler{
		products:      d.Products,
		cart:          d.Cart,
		orders:        d.Orders,
		auth:          d.Auth,
		users:         d.Users,
		secureCookies: d.SecureCookies,
		sessionTTL:    d.SessionTTL,
	}
	if h.sessionTTL <= 0 {
		h.sessionTTL = auth.DefaultSessionTTL
	}
	limiter := d.Limiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter()
	}
	h.limiter = limiter

	r := chi.NewRouter()
	r.Use(middleware.RealIP(d.TrustedProxies))
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(d.FrontendOrigin))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.OptionalSession(d.Auth))
		r.Use(limiter.Middleware)

		r.Get("/categories", h.listCategories)
		r.Get("/categories/{slug}", h.getCategory)
		r.Get("/categories/{slug}/produits", h.listCategoryProducts)
		r.Get("/produits/{slug}", h.getProduct)
		r.Get("/offres", h.listOffers)

		r.Route("/panier", func(r chi.Router) {
			r.Get("/", h.getCart)
			r.Delete("/", h.clearCart)
			r.Post("/articles", h.addCartItem)
			r.Put("/articles/{productId}", h.setCartItemQuantity)
			r.Delete("/articles/{productId}", h.removeCartItem)
		})

		r.Post("/commandes", h.createOrder)
		r.Get("/commandes/{id}", h.getOrderConfirmation)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/inscription", h.signUp)
			r.Post("/connexion", h.signIn)
			r.Post("/connexion-otp", h.signInWithOTP)
			r.Post("/deconnexion", h.signOut)
			r.Get("/session", h.getSession)

			r.Post("/email-otp", h.sendOTP)
			r.Post("/verifier-email", h.verifyEmail)
			r.Post("/mot-de-passe-oublie", h.forgetPassword)
			r.Post("/check-reset-otp", h.checkResetOTP)
			r.Post("/reinitialiser", h.resetPassword)

			r.Get("/social", h.listSocialProviders)
			r.Get("/social/{provider}", h.socialRedirect)
			r.Get("/social/{provider}/callback", h.socialCallback)
			r.Post("/social/{provider}/callback", h.socialCallback)
		})
	})

	r.Route("/compte", func(r chi.Router) {
		r.Use(middleware.Guard(d.Auth))
		r.Use(limiter.Middleware)

		r.Get("/profil", h.getProfile)
		r.Patch("/profil", h.updateProfile)
		r.Get("/commandes", h.listMyOrders)
		r.Get("/commandes/{id}", h.getMyOrder)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Guard(d.Auth))
		r.Use(limiter.Middleware)

		r.With(requirePermission(auth.ResourceOrder, auth.ActionRead)).
			Get("/commandes", h.adminListOrders)
		r.With(requirePermission(auth.ResourceOrder, auth.ActionUpdate)).
			Patch("/commandes/{id}/statut", h.adminUpdateOrderStatus)
		r.With(requirePermission(auth.ResourceProduct, auth.ActionCreate)).
			Post("/produits", h.adminCreateProduct)
	})

	return r
}
