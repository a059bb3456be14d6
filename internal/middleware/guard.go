package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"dbs-store/internal/auth"
	"dbs-store/internal/logger"
	"dbs-store/internal/metrics"
	"dbs-store/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	SignInPath        = "/connexion"
	UnverifiedPath    = "/email-non-verifie"
	adminPrefix       = "/admin"
	callbackURLParam  = "callbackUrl"
	redirectNoSession = "no_session"
)

// SessionProvider resolves session tokens. auth.Service satisfies it.
type SessionProvider interface {
	GetSession(ctx context.Context, token string) (*auth.SessionWithUser, error)
	ListOrganizationsForToken(ctx context.Context, token string) ([]auth.Organization, error)
}

// Guard protects account and back-office routes. Requests without a live
// session go to sign-in, unverified users to the verification notice, and
// admin paths additionally require membership in the store organization.
// Lookup failures are treated as signed out.
func Guard(sessions SessionProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			path := r.URL.Path
			isAdmin := path == adminPrefix || strings.HasPrefix(path, adminPrefix+"/")

			log := logger.FromCtx(ctx).With(
				zap.String("layer", "middleware"),
				zap.String("path", path),
			)

			token := auth.ExtractSessionToken(r)
			if token == "" {
				redirect(w, r, signInURL(path), redirectNoSession)
				return
			}

			// 1️⃣ Session and organizations in parallel
			var (
				session    *auth.SessionWithUser
				sessionErr error
				orgs       []auth.Organization
				orgsErr    error
			)
			var g errgroup.Group
			g.Go(func() error {
				session, sessionErr = sessions.GetSession(ctx, token)
				return sessionErr
			})
			if isAdmin {
				g.Go(func() error {
					orgs, orgsErr = sessions.ListOrganizationsForToken(ctx, token)
					return orgsErr
				})
			}
			_ = g.Wait()

			// 2️⃣ Session
			if sessionErr != nil {
				var ae *auth.Error
				if !errors.As(sessionErr, &ae) {
					log.Error("session lookup failed", zap.Error(sessionErr))
					redirect(w, r, signInURL(path), "session_error")
					return
				}
				redirect(w, r, signInURL(path), redirectNoSession)
				return
			}
			if session == nil {
				redirect(w, r, signInURL(path), redirectNoSession)
				return
			}
			if !session.User.EmailVerified {
				redirect(w, r, UnverifiedPath, "unverified")
				return
			}

			ctx = utils.SetSessionContext(ctx, session)

			// 3️⃣ Store membership
			if isAdmin {
				if orgsErr != nil {
					log.Error("organization lookup failed",
						zap.String("user_id", session.User.ID),
						zap.Error(orgsErr),
					)
					redirect(w, r, signInURL(path), "org_error")
					return
				}
				role, ok := storeRole(orgs)
				if !ok {
					redirect(w, r, "/", "not_member")
					return
				}
				ctx = utils.SetStoreRole(ctx, role)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalSession attaches the session to the request context when the
// request carries a valid one. It never blocks the request.
func OptionalSession(sessions SessionProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.ExtractSessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := sessions.GetSession(r.Context(), token)
			if err != nil {
				var ae *auth.Error
				if !errors.As(err, &ae) {
					logger.FromCtx(r.Context()).Warn("optional session lookup failed", zap.Error(err))
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.SetSessionContext(r.Context(), session)))
		})
	}
}

func storeRole(orgs []auth.Organization) (auth.Role, bool) {
	for _, o := range orgs {
		if o.Slug == auth.StoreOrgSlug {
			return o.Role, true
		}
	}
	return "", false
}

func signInURL(callback string) string {
	q := url.Values{}
	q.Set(callbackURLParam, callback)
	return SignInPath + "?" + q.Encode()
}

func redirect(w http.ResponseWriter, r *http.Request, to, reason string) {
	metrics.GuardRedirects.WithLabelValues(reason).Inc()
	http.Redirect(w, r, to, http.StatusSeeOther)
}
