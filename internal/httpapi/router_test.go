package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"dbs-store/internal/auth"
	"dbs-store/internal/cart"
	"dbs-store/internal/order"
	"dbs-store/internal/product"
	"dbs-store/internal/user"
	"dbs-store/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	products *MockProductService
	cart     *MockCartService
	orders   *MockOrderService
	auth     *MockAuthService
	users    *MockUserService
	router   http.Handler
}

func newTestAPI() *testAPI {
	a := &testAPI{
		products: new(MockProductService),
		cart:     new(MockCartService),
		orders:   new(MockOrderService),
		auth:     new(MockAuthService),
		users:    new(MockUserService),
	}
	a.router = NewRouter(Deps{
		Products:       a.products,
		Cart:           a.cart,
		Orders:         a.orders,
		Auth:           a.auth,
		Users:          a.users,
		FrontendOrigin: "http://localhost:3000",
	})
	return a
}

func (a *testAPI) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// withSession makes the mocked auth service resolve "tok" to a verified user.
func (a *testAPI) withSession(verified bool) *auth.SessionWithUser {
	s := &auth.SessionWithUser{
		Session: auth.Session{ID: "s1", UserID: "u1"},
		User:    user.User{ID: "u1", Email: "awa@example.ci", EmailVerified: verified},
	}
	a.auth.On("GetSession", mock.Anything, "tok").Return(s, nil)
	return s
}

func authed(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "tok"})
	return req
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) utils.ErrorBody {
	t.Helper()
	var body utils.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func responseCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestHealthz(t *testing.T) {
	a := newTestAPI()
	w := a.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCatalogRoutes(t *testing.T) {
	t.Run("Category tree", func(t *testing.T) {
		a := newTestAPI()
		w := a.do(httptest.NewRequest(http.MethodGet, "/api/categories", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var cats []categoryResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cats))
		assert.Len(t, cats, 11)
		assert.Equal(t, "smartphones", cats[0].Slug)
		assert.NotEmpty(t, cats[0].Subcategories)
	})

	t.Run("Unknown category", func(t *testing.T) {
		a := newTestAPI()
		w := a.do(httptest.NewRequest(http.MethodGet, "/api/categories/inconnue/produits", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "CATEGORY_NOT_FOUND", decodeError(t, w).Error)
	})

	t.Run("Listing with filters", func(t *testing.T) {
		a := newTestAPI()
		min := int64(10000)
		a.products.On("ListByCategory", mock.Anything, "audio", product.Filters{
			Brand:    "Sony",
			PriceMin: &min,
			Sort:     product.SortPriceAsc,
		}).Return([]product.Product{{ID: "p1", Name: "WH-1000XM5", Price: 250000}}, nil)

		w := a.do(httptest.NewRequest(http.MethodGet, "/api/categories/audio/produits?marque=Sony&prix_min=10000&tri=prix_asc", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var got []productResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "p1", got[0].ID)
		assert.True(t, strings.HasSuffix(got[0].PriceFormatted, " FCFA"))
	})

	t.Run("Malformed price filter", func(t *testing.T) {
		a := newTestAPI()
		w := a.do(httptest.NewRequest(http.MethodGet, "/api/categories/audio/produits?prix_min=abc", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		a.products.AssertNotCalled(t, "ListByCategory", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Product not found", func(t *testing.T) {
		a := newTestAPI()
		a.products.On("GetDetail", mock.Anything, "nope").Return(nil, product.ErrProductNotFound)

		w := a.do(httptest.NewRequest(http.MethodGet, "/api/produits/nope", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "PRODUCT_NOT_FOUND", body.Error)
		assert.Equal(t, "Produit introuvable.", body.Message)
	})

	t.Run("Storage failure is hidden", func(t *testing.T) {
		a := newTestAPI()
		a.products.On("ListPromo", mock.Anything, promoLimit).Return(nil, errors.New("pq: connection refused"))

		w := a.do(httptest.NewRequest(http.MethodGet, "/api/offres", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "pq:")
	})
}

func TestCartRoutes(t *testing.T) {
	t.Run("Empty cart without cookie", func(t *testing.T) {
		a := newTestAPI()
		w := a.do(httptest.NewRequest(http.MethodGet, "/api/panier", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"items":[],"total":0,"count":0,"totalFormatted":"0 FCFA"}`, w.Body.String())
		a.cart.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("First add creates the cart cookie", func(t *testing.T) {
		a := newTestAPI()
		a.cart.On("AddItem", mock.Anything, mock.AnythingOfType("string"), "p1").
			Return(cart.View{Items: []cart.Item{{ProductID: "p1", Price: 1000, Quantity: 1}}, Total: 1000, Count: 1}, nil)

		w := a.do(jsonRequest(http.MethodPost, "/api/panier/articles", `{"productId":"p1"}`))

		require.Equal(t, http.StatusOK, w.Code)
		c := responseCookie(w, cartCookieName)
		require.NotNil(t, c)
		assert.True(t, c.HttpOnly)

		cartID := a.cart.Calls[0].Arguments.String(1)
		assert.Equal(t, c.Value, cartID)
	})

	t.Run("Existing cookie is reused", func(t *testing.T) {
		a := newTestAPI()
		id := "4f1c7c1e-0b5e-4d7e-9a43-3f1e2a7d9b10"
		a.cart.On("SetQuantity", mock.Anything, id, "p1", 3).Return(cart.View{Count: 3}, nil)

		req := jsonRequest(http.MethodPut, "/api/panier/articles/p1", `{"quantity":3}`)
		req.AddCookie(&http.Cookie{Name: cartCookieName, Value: id})
		w := a.do(req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, responseCookie(w, cartCookieName))
	})

	t.Run("Missing quantity", func(t *testing.T) {
		a := newTestAPI()
		w := a.do(jsonRequest(http.MethodPut, "/api/panier/articles/p1", `{}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Inactive product", func(t *testing.T) {
		a := newTestAPI()
		a.cart.On("AddItem", mock.Anything, mock.Anything, "gone").Return(cart.View{}, product.ErrProductNotFound)

		w := a.do(jsonRequest(http.MethodPost, "/api/panier/articles", `{"productId":"gone"}`))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCheckoutRoute(t *testing.T) {
	body := `{"name":"Awa","phone":"0700000000","city":"Abidjan","address":"Cocody","payment_method":"cod",
		"items":[{"productId":"p1","price":1,"quantity":2}]}`

	t.Run("Signed out is sent to sign-in", func(t *testing.T) {
		a := newTestAPI()
		a.orders.On("Create", mock.Anything, (*order.Customer)(nil), mock.Anything).Return(nil, order.ErrUnauthenticated)

		w := a.do(jsonRequest(http.MethodPost, "/api/commandes", body))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/connexion?callbackUrl=%2Fcheckout", w.Header().Get("Location"))
	})

	t.Run("Unverified is sent to verification", func(t *testing.T) {
		a := newTestAPI()
		a.withSession(false)
		a.orders.On("Create", mock.Anything, &order.Customer{UserID: "u1"}, mock.Anything).Return(nil, order.ErrEmailNotVerified)

		w := a.do(authed(jsonRequest(http.MethodPost, "/api/commandes", body)))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/email-non-verifie", w.Header().Get("Location"))
	})

	t.Run("Success clears the cart", func(t *testing.T) {
		a := newTestAPI()
		a.withSession(true)
		cartID := "4f1c7c1e-0b5e-4d7e-9a43-3f1e2a7d9b10"

		a.orders.On("Create", mock.Anything, &order.Customer{UserID: "u1", EmailVerified: true},
			mock.MatchedBy(func(in order.CheckoutInput) bool {
				return in.PaymentMethod == order.PaymentCOD && len(in.Items) == 1 && in.Items[0].Quantity == 2
			})).Return(&order.CreateResult{OrderID: "o1"}, nil)
		a.cart.On("Clear", mock.Anything, cartID).Return(nil)

		req := authed(jsonRequest(http.MethodPost, "/api/commandes", body))
		req.AddCookie(&http.Cookie{Name: cartCookieName, Value: cartID})
		w := a.do(req)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"orderId":"o1"}`, w.Body.String())
		a.cart.AssertExpectations(t)
	})

	t.Run("Product gone", func(t *testing.T) {
		a := newTestAPI()
		a.withSession(true)
		a.orders.On("Create", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &order.Error{Code: order.CodeProductNotFound, ProductID: "p9"})

		w := a.do(authed(jsonRequest(http.MethodPost, "/api/commandes", body)))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "PRODUCT_NOT_FOUND:p9", decodeError(t, w).Error)
	})

	t.Run("Empty cart", func(t *testing.T) {
		a := newTestAPI()
		a.withSession(true)
		a.orders.On("Create", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &order.Error{Code: order.CodeEmptyCart})

		w := a.do(authed(jsonRequest(http.MethodPost, "/api/commandes", `{"items":[]}`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, "EMPTY_CART", body.Error)
		assert.Equal(t, "Votre panier est vide.", body.Message)
	})

	t.Run("Confirmation of another user's order", func(t *testing.T) {
		a := newTestAPI()
		a.withSession(true)
		a.orders.On("GetForUser", mock.Anything, mock.Anything, "o2").Return(nil, order.ErrOrderNotFound)

		w := a.do(authed(httptest.NewRequest(http.MethodGet, "/api/commandes/o2", nil)))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "ORDER_NOT_FOUND", decodeError(t, w).Error)
	})
}

func TestAuthRoutes(t *testing.T) {
	signed := &auth.SignedIn{
		Token:   "new-token",
		Session: auth.Session{ID: "s2", UserID: "u1"},
		User:    user.User{ID: "u1", Email: "awa@example.ci"},
	}

	t.Run("Sign in sets the session cookie", func(t *testing.T) {
		a := newTestAPI()
		a.auth.On("SignIn", mock.Anything, "awa@example.ci", "motdepasse", mock.Anything).Return(signed, nil)

		w := a.do(jsonRequest(http.MethodPost, "/api/auth/connexion", `{"email":"awa@example.ci","password":"motdepasse"}`))

		require.Equal(t, http.StatusOK, w.Code)
		c := responseCookie(w, auth.SessionCookieName)
		require.NotNil(t, c)
		assert.Equal(t, "new-token", c.Value)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		assert.NotContains(t, w.Body.String(), "new-token")
	})

	t.Run("Bad credentials", func(t *testing.T) {
		a := newTestAPI()
		a.auth.On("SignIn", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, auth.ErrInvalidCredentials)

		w := a.do(jsonRequest(http.MethodPost, "/api/auth/connexion", `{"email":"awa@example.ci","password":"x"}`))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		body := decodeError(t, w)
		assert.Equal(t, auth.CodeInvalidCredentials, body.Error)
		assert.Equal(t, "Email ou mot de passe incorrect.", body.Message)
	})

	t.Run("Sign up conflict", func(t *testing.T) {
		a := newTestAPI()
		a.auth.On("SignUp", mock.Anything, "Awa", "awa@example.ci", "motdepasse", mock.Anything).Return(nil, auth.ErrUserAlreadyExists)

		w := a.do(jsonRequest(http.MethodPost, "/api/auth/inscription", `{"name":"Awa","email":"awa@example.ci","password":"motdepasse"}`))
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Sign out clears the cookie", func(t *testing.T) {
		a := newTestAPI()
		a.withSession(true)
		a.auth.On("SignOut", mock.Anything, "tok").Return(nil)

		w := a.do(authed(httptest.NewRequest(http.MethodPost, "/api/auth/deconnexion", nil)))

		assert.Equal(t, http.StatusNoContent, w.Code)
		c := responseCookie(w, auth.SessionCookieName)
		require.NotNil(t, c)
		assert.True(t, c.MaxAge < 0)
	})

	t.Run("Session requires a token", func(t *testing.T) {
		a := newTestAPI()
		w := a.do(httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Reset check", func(t *testing.T) {
		a := newTestAPI()
		a.auth.On("CheckResetOTP", mock.Anything, "awa@example.ci", "123456").
			Return(auth.ResetCheck{Reason: auth.ReasonExpired}, nil)

		w := a.do(jsonRequest(http.MethodPost, "/api/auth/check-reset-otp", `{"email":"awa@example.ci","otp":"123456"}`))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"valid":false,"reason":"expired"}`, w.Body.String())
	})

	t.Run("Reset check without email or code", func(t *testing.T) {
		a := newTestAPI()

		for _, body := range []string{`{"email":"awa@example.ci"}`, `{"otp":"123456"}`, `{}`} {
			w := a.do(jsonRequest(http.MethodPost, "/api/auth/check-reset-otp", body))

			assert.Equal(t, http.StatusBadRequest, w.Code, body)
			assert.JSONEq(t, `{"valid":false}`, w.Body.String())
		}
		a.auth.AssertNotCalled(t, "CheckResetOTP", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Reset check is limited per email across clients", func(t *testing.T) {
		a := newTestAPI()
		a.auth.On("CheckResetOTP", mock.Anything, mock.Anything, mock.Anything).
			Return(auth.ResetCheck{Reason: auth.ReasonInvalid}, nil)

		limited := 0
		for i := 0; i < 20; i++ {
			email := "awa@example.ci"
			if i%2 == 1 {
				email = "AWA@example.ci"
			}
			req := jsonRequest(http.MethodPost, "/api/auth/check-reset-otp", fmt.Sprintf(`{"email":%q,"otp":"%06d"}`, email, i))
			req.RemoteAddr = fmt.Sprintf("198.51.100.%d:1234", i+1)
			req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
			if w := a.do(req); w.Code == http.StatusTooManyRequests {
				limited++
			}
		}

		assert.GreaterOrEqual(t, limited, 10)
		assert.LessOrEqual(t, len(a.auth.Calls), 10)
	})

	t.Run("OTP defaults to email verification", func(t *testing.T) {
		a := newTestAPI()
		a.auth.On("SendVerificationOTP", mock.Anything, "awa@example.ci", auth.OTPEmailVerification).Return(nil)

		w := a.do(jsonRequest(http.MethodPost, "/api/auth/email-otp", `{"email":"awa@example.ci"}`))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestSocialRoutes(t *testing.T) {
	t.Run("Redirect stores state", func(t *testing.T) {
		a := newTestAPI()
		a.auth.On("SocialAuthURL", "google", mock.AnythingOfType("string")).Return("https://accounts.google.com/o/oauth2/auth?state=x", nil)

		w := a.do(httptest.NewRequest(http.MethodGet, "/api/auth/social/google?callbackUrl=/compte/profil", nil))

		assert.Equal(t, http.StatusFound, w.Code)
		state := responseCookie(w, oauthStateCookie)
		require.NotNil(t, state)
		assert.Equal(t, a.auth.Calls[0].Arguments.String(1), state.Value)
		assert.Equal(t, http.SameSiteNoneMode, state.SameSite)
		assert.True(t, state.Secure)
		require.NotNil(t, responseCookie(w, oauthCallbackCookie))
	})

	t.Run("Off-site callback is ignored", func(t *testing.T) {
		a := newTestAPI()
		a.auth.On("SocialAuthURL", "google", mock.Anything).Return("https://idp.test", nil)

		w := a.do(httptest.NewRequest(http.MethodGet, "/api/auth/social/google?callbackUrl=//evil.test", nil))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Nil(t, responseCookie(w, oauthCallbackCookie))
	})

	t.Run("Callback rejects a state mismatch", func(t *testing.T) {
		a := newTestAPI()
		req := httptest.NewRequest(http.MethodGet, "/api/auth/social/google/callback?code=c&state=forged", nil)
		req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "expected"})

		w := a.do(req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, auth.CodeInvalidState, decodeError(t, w).Error)
		a.auth.AssertNotCalled(t, "SocialCallback", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Callback signs in and returns to the page", func(t *testing.T) {
		a := newTestAPI()
		a.auth.On("SocialCallback", mock.Anything, "google", "c", mock.Anything).
			Return(&auth.SignedIn{Token: "social-token"}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/auth/social/google/callback?code=c&state=st", nil)
		req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "st"})
		req.AddCookie(&http.Cookie{Name: oauthCallbackCookie, Value: "/compte/commandes"})
		w := a.do(req)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/compte/commandes", w.Header().Get("Location"))
		c := responseCookie(w, auth.SessionCookieName)
		require.NotNil(t, c)
		assert.Equal(t, "social-token", c.Value)
	})

	t.Run("Apple posts the callback as a form", func(t *testing.T) {
		a := newTestAPI()
		a.auth.On("SocialCallback", mock.Anything, "apple", "apple-code", mock.Anything).
			Return(&auth.SignedIn{Token: "apple-token"}, nil)

		form := url.Values{"code": {"apple-code"}, "state": {"st"}}
		req := httptest.NewRequest(http.MethodPost, "/api/auth/social/apple/callback", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "st"})
		w := a.do(req)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		c := responseCookie(w, auth.SessionCookieName)
		require.NotNil(t, c)
		assert.Equal(t, "apple-token", c.Value)
		cleared := responseCookie(w, oauthStateCookie)
		require.NotNil(t, cleared)
		assert.True(t, cleared.MaxAge < 0)
	})

	t.Run("Posted callback still checks state", func(t *testing.T) {
		a := newTestAPI()

		form := url.Values{"code": {"apple-code"}, "state": {"forged"}}
		req := httptest.NewRequest(http.MethodPost, "/api/auth/social/apple/callback", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "st"})
		w := a.do(req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		a.auth.AssertNotCalled(t, "SocialCallback", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAccountRoutes(t *testing.T) {
	t.Run("Guarded", func(t *testing.T) {
		a := newTestAPI()
		w := a.do(httptest.NewRequest(http.MethodGet, "/compte/profil", nil))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/connexion?callbackUrl=%2Fcompte%2Fprofil", w.Header().Get("Location"))
	})

	t.Run("Profile", func(t *testing.T) {
		a := newTestAPI()
		a.withSession(true)
		a.users.On("GetProfile", mock.Anything, "u1").Return(&user.Profile{ID: "u1", MaskedEmail: "a**@example.ci"}, nil)

		w := a.do(authed(httptest.NewRequest(http.MethodGet, "/compte/profil", nil)))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "a**@example.ci")
	})

	t.Run("Rename rejects a blank name", func(t *testing.T) {
		a := newTestAPI()
		a.withSession(true)
		a.users.On("UpdateName", mock.Anything, "u1", "  ").Return(nil, user.ErrInvalidName)

		w := a.do(authed(jsonRequest(http.MethodPatch, "/compte/profil", `{"name":"  "}`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, auth.CodeInvalidName, decodeError(t, w).Error)
	})

	t.Run("My orders", func(t *testing.T) {
		a := newTestAPI()
		a.withSession(true)
		a.orders.On("ListForUser", mock.Anything, &order.Customer{UserID: "u1", EmailVerified: true}).
			Return([]order.Order{{ID: "o1", Total: 15000}}, nil)

		w := a.do(authed(httptest.NewRequest(http.MethodGet, "/compte/commandes", nil)))

		require.Equal(t, http.StatusOK, w.Code)
		var got []orderResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.True(t, strings.HasSuffix(got[0].TotalFormatted, " FCFA"))
	})
}

func TestAdminRoutes(t *testing.T) {
	withRole := func(a *testAPI, role auth.Role) {
		a.withSession(true)
		a.auth.On("ListOrganizationsForToken", mock.Anything, "tok").
			Return([]auth.Organization{{Slug: auth.StoreOrgSlug, Role: role}}, nil)
	}

	t.Run("Member can list", func(t *testing.T) {
		a := newTestAPI()
		withRole(a, auth.RoleMember)
		status := order.StatusPending
		a.orders.On("ListAll", mock.Anything, order.ListFilter{Status: &status, Page: 2}).Return([]order.Order{}, nil)

		w := a.do(authed(httptest.NewRequest(http.MethodGet, "/admin/commandes?statut=pending&page=2", nil)))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Unknown status filter", func(t *testing.T) {
		a := newTestAPI()
		withRole(a, auth.RoleAdmin)

		w := a.do(authed(httptest.NewRequest(http.MethodGet, "/admin/commandes?statut=perdue", nil)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Member cannot update", func(t *testing.T) {
		a := newTestAPI()
		withRole(a, auth.RoleMember)

		w := a.do(authed(jsonRequest(http.MethodPatch, "/admin/commandes/o1/statut", `{"status":"shipped"}`)))

		assert.Equal(t, http.StatusForbidden, w.Code)
		a.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Admin updates status", func(t *testing.T) {
		a := newTestAPI()
		withRole(a, auth.RoleAdmin)
		a.orders.On("UpdateStatus", mock.Anything, "o1", order.StatusShipped).Return(nil)

		w := a.do(authed(jsonRequest(http.MethodPatch, "/admin/commandes/o1/statut", `{"status":"shipped"}`)))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"o1","status":"shipped","statusLabel":"Expédiée"}`, w.Body.String())
	})

	t.Run("Admin creates a product", func(t *testing.T) {
		a := newTestAPI()
		withRole(a, auth.RoleAdmin)
		a.products.On("Create", mock.Anything, mock.MatchedBy(func(p *product.Product) bool {
			return p.Name == "Pixel 8" && p.IsActive
		})).Return(nil)

		w := a.do(authed(jsonRequest(http.MethodPost, "/admin/produits", `{"name":"Pixel 8","categoryId":"smartphones","price":400000}`)))
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Non-member goes home", func(t *testing.T) {
		a := newTestAPI()
		a.withSession(true)
		a.auth.On("ListOrganizationsForToken", mock.Anything, "tok").Return([]auth.Organization{}, nil)

		w := a.do(authed(httptest.NewRequest(http.MethodGet, "/admin/commandes", nil)))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})
}
