package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const (
	userIDKey    contextKey = "user_id"
	rateLimitKey contextKey = "rate_limit_key"
)

func SetUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

func GetUserID(r *http.Request) (uuid.UUID, bool) {
	id, ok := r.Context().Value(userIDKey).(uuid.UUID)
	return id, ok
}

func setRateLimitKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, rateLimitKey, key)
}

func getRateLimitKey(r *http.Request) (string, bool) {
	key, ok := r.Context().Value(rateLimitKey).(string)
	return key, ok
}
