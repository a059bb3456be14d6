package httpapi

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"dbs-store/internal/auth"
	"dbs-store/internal/logger"
	"dbs-store/internal/middleware"
	"dbs-store/internal/user"
	"dbs-store/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	oauthStateCookie    = "dbs_oauth_state"
	oauthCallbackCookie = "dbs_oauth_callback"
	oauthCookieTTL      = 10 * time.Minute
)

type credentialsRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type otpRequest struct {
	Email    string       `json:"email"`
	OTP      string       `json:"otp"`
	Type     auth.OTPType `json:"type"`
	Password string       `json:"password"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) writeSignedIn(w http.ResponseWriter, status int, res *auth.SignedIn) {
	h.setSessionCookie(w, res.Token)
	utils.WriteJSON(w, status, res)
}

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.auth.SignUp(r.Context(), req.Name, req.Email, req.Password, requestMeta(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.writeSignedIn(w, http.StatusCreated, res)
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.auth.SignIn(r.Context(), req.Email, req.Password, requestMeta(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.writeSignedIn(w, http.StatusOK, res)
}

func (h *Handler) signInWithOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if !h.allowOTPGuess(w, req.Email) {
		return
	}

	res, err := h.auth.SignInWithOTP(r.Context(), req.Email, req.OTP, requestMeta(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.writeSignedIn(w, http.StatusOK, res)
}

func (h *Handler) signOut(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.SignOut(r.Context(), auth.ExtractSessionToken(r)); err != nil {
		writeError(w, r, err)
		return
	}
	h.clearCookie(w, auth.SessionCookieName)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	s, ok := utils.GetSessionFromContext(r.Context())
	if !ok {
		writeError(w, r, auth.ErrUnauthorized)
		return
	}
	utils.WriteJSON(w, http.StatusOK, s)
}

func (h *Handler) sendOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Type == "" {
		req.Type = auth.OTPEmailVerification
	}

	if err := h.auth.SendVerificationOTP(r.Context(), req.Email, req.Type); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if !h.allowOTPGuess(w, req.Email) {
		return
	}

	u, err := h.auth.VerifyEmail(r.Context(), req.Email, req.OTP)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{"status": true, "user": u})
}

func (h *Handler) forgetPassword(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.auth.ForgetPassword(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) checkResetOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.OTP == "" {
		utils.WriteJSON(w, http.StatusBadRequest, auth.ResetCheck{Valid: false})
		return
	}
	if !h.allowOTPGuess(w, req.Email) {
		return
	}

	res, err := h.auth.CheckResetOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, res)
}

// allowOTPGuess spends one guess from the quota of the targeted address and
// answers 429 once it is empty.
func (h *Handler) allowOTPGuess(w http.ResponseWriter, email string) bool {
	if h.limiter.AllowOTPGuess(user.NormalizeEmail(email)) {
		return true
	}
	middleware.WriteTooManyRequests(w)
	return false
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if !h.allowOTPGuess(w, req.Email) {
		return
	}

	if err := h.auth.ResetPassword(r.Context(), req.Email, req.OTP, req.Password); err != nil {
		writeError(w, r, err)
		return
	}
	h.clearCookie(w, auth.SessionCookieName)
	utils.WriteJSON(w, http.StatusOK, successResponse{Success: true})
}

func (h *Handler) listSocialProviders(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string][]string{"providers": h.auth.SocialProviders()})
}

// socialRedirect starts a social sign-in. The state is echoed back by the
// provider and checked against the cookie on callback.
func (h *Handler) socialRedirect(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	target, err := h.auth.SocialAuthURL(chi.URLParam(r, "provider"), state)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.setShortCookie(w, oauthStateCookie, state)
	if cb := r.URL.Query().Get("callbackUrl"); isLocalPath(cb) {
		h.setShortCookie(w, oauthCallbackCookie, cb)
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *Handler) socialCallback(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	log := logger.FromCtx(r.Context()).With(zap.String("provider", provider))

	// Apple posts the result as a form, the others redirect with a query
	cookie, err := r.Cookie(oauthStateCookie)
	state := r.FormValue("state")
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) != 1 {
		log.Warn("social callback state mismatch")
		writeError(w, r, &auth.Error{Code: auth.CodeInvalidState})
		return
	}
	h.clearShortCookie(w, oauthStateCookie)

	res, err := h.auth.SocialCallback(r.Context(), provider, r.FormValue("code"), requestMeta(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.setSessionCookie(w, res.Token)

	target := "/"
	if c, err := r.Cookie(oauthCallbackCookie); err == nil && isLocalPath(c.Value) {
		target = c.Value
		h.clearShortCookie(w, oauthCallbackCookie)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// setShortCookie stores sign-in state that must come back on the provider's
// cross-site callback, which is a POST for Apple. Browsers only send such
// cookies when they are SameSite=None and Secure.
func (h *Handler) setShortCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(oauthCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func (h *Handler) clearShortCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

// isLocalPath accepts same-site absolute paths only, so callbacks cannot
// redirect off the store.
func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") && !strings.HasPrefix(p, "/\\")
}
