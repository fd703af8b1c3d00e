package http

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"inventrack-backend/internal/domain"
	"inventrack-backend/internal/logger"
	"inventrack-backend/internal/repository"
	"inventrack-backend/internal/security"
	"inventrack-backend/internal/service"
)

type contextKey string

const userContextKey contextKey = "authenticated-user"

// Middleware bundles the cross-cutting request handlers.
type Middleware struct {
	tokens      security.TokenManager
	userRepo    repository.UserRepository
	adminDomain string

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func NewMiddleware(tokens security.TokenManager, userRepo repository.UserRepository, adminDomain string) *Middleware {
	return &Middleware{
		tokens:      tokens,
		userRepo:    userRepo,
		adminDomain: adminDomain,
		limiters:    make(map[string]*rate.Limiter),
	}
}

// Authenticate validates the bearer token, loads the account and recomputes
// the role from the email on every request. The stored role column is never
// consulted for authorization.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondError(w, domain.ErrUnauthenticated)
			return
		}
		claims, err := m.tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			respondError(w, err)
			return
		}

		user, err := m.userRepo.GetByID(r.Context(), claims.UserID)
		if err != nil {
			respondError(w, domain.ErrUnauthenticated)
			return
		}
		if !user.IsActive {
			respondError(w, domain.ErrAccountDisabled)
			return
		}
		user.Role = domain.RoleForEmail(user.Email, m.adminDomain)

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin gates a route on the derived admin role. Must run inside
// Authenticate.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil || user.Role != domain.RoleAdmin {
			respondError(w, domain.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit applies a per-client-IP token bucket.
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.limiterFor(clientIP(r)).Allow() {
			writeJSON(w, http.StatusTooManyRequests, envelope{Success: false, Message: "too many requests"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) limiterFor(ip string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()
	limiter, ok := m.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(10), 30)
		m.limiters[ip] = limiter
	}
	return limiter
}

// LogRequests emits one structured line per request.
func (m *Middleware) LogRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("request", "method", r.Method, "path", r.URL.Path, "remote", clientIP(r), "duration", time.Since(start))
	})
}

// UserFromContext returns the authenticated account, or nil outside the
// Authenticate middleware.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userContextKey).(*domain.User)
	return user
}

func requestMeta(r *http.Request) service.RequestMeta {
	return service.RequestMeta{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
