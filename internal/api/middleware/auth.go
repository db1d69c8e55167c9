package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/stratuslabs/stratus/internal/api/response"
	"github.com/stratuslabs/stratus/internal/store"
)

// tokenPrefixLen is how much of the session token keys the rate limiter.
// Enough to separate users, short enough to keep Redis keys compact.
const tokenPrefixLen = 8

// Auth validates session bearer tokens against the sessions table.
type Auth struct {
	store store.Store
}

// NewAuth creates a new Auth middleware.
func NewAuth(s store.Store) *Auth {
	return &Auth{store: s}
}

// Authenticate validates the Bearer session token and sets user_id and the
// rate-limit key in the request context. Expired sessions read as absent.
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			response.Error(w, http.StatusUnauthorized,
				"INVALID_TOKEN", "Missing or invalid Authorization header", nil)
			return
		}

		session, err := a.store.GetSession(r.Context(), token)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusUnauthorized,
					"INVALID_TOKEN", "Invalid or expired session", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError,
				"INTERNAL_ERROR", "Failed to validate session", nil)
			return
		}

		ctx := SetUserID(r.Context(), session.UserID)
		if len(token) >= tokenPrefixLen {
			ctx = setRateLimitKey(ctx, token[:tokenPrefixLen])
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
