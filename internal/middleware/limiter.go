package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"dbs-store/internal/utils"

	"golang.org/x/time/rate"
)

// Rate Limit Tiers
const (
	// Auth / sign-in / OTP / checkout (Strict)
	limitStrict = rate.Limit(2)
	burstStrict = 5

	// General (Default)
	limitGeneral = rate.Limit(10)
	burstGeneral = 20

	// OTP guesses per email, whatever the client address
	limitOTPEmail = rate.Limit(1.0 / 30)
	burstOTPEmail = 5
)

// visitor holds the rate limiter and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client and tier.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	idleTTL  time.Duration
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		idleTTL:  3 * time.Minute,
	}
}

// getVisitor retrieves or creates a rate limiter for the given key.
func (l *RateLimiter) getVisitor(key string, r rate.Limit, b int) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(r, b)
		l.visitors[key] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// Cleanup removes idle visitors every minute until stop is closed.
func (l *RateLimiter) Cleanup(stop <-chan struct{}) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			l.evictIdle(time.Now())
		}
	}
}

func (l *RateLimiter) evictIdle(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.idleTTL {
			delete(l.visitors, key)
		}
	}
}

// Middleware rejects requests over the client's quota with 429.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 1. Determine Rate Tier
		limit, burst, tier := resolveRateTier(r)

		// 2. Determine Identity Key
		var identity string
		if userID, ok := utils.GetUserIDFromContext(r.Context()); ok {
			identity = "user:" + userID
		} else {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			identity = "ip:" + ip
		}

		// 3. Separate quotas per tier, e.g. "ip:10.0.0.1:strict"
		limiter := l.getVisitor(identity+":"+tier, limit, burst)
		if !limiter.Allow() {
			WriteTooManyRequests(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// AllowOTPGuess spends one OTP guess for email. The quota follows the
// address being guessed, so spreading guesses over clients does not help.
func (l *RateLimiter) AllowOTPGuess(email string) bool {
	return l.getVisitor("email:"+email+":otp", limitOTPEmail, burstOTPEmail).Allow()
}

func WriteTooManyRequests(w http.ResponseWriter) {
	utils.WriteJSONError(w, http.StatusTooManyRequests, "TOO_MANY_REQUESTS",
		"Trop de requêtes. Veuillez réessayer dans quelques instants.")
}

// resolveRateTier determines which rate limit policy applies to the request.
func resolveRateTier(r *http.Request) (rate.Limit, int, string) {
	if strings.HasPrefix(r.URL.Path, "/api/auth/") {
		return limitStrict, burstStrict, "strict"
	}
	if r.Method == http.MethodPost && r.URL.Path == "/api/commandes" {
		return limitStrict, burstStrict, "strict"
	}
	return limitGeneral, burstGeneral, "general"
}
