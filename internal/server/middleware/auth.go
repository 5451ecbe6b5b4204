// Package middleware resolves the owner of a request from its bearer token.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values.
type ContextKey string

const ownerIDKey ContextKey = "ownerID"

// TokenValidator validates a bearer token.
type TokenValidator interface {
	ValidateToken(tokenString string) (OwnerIDGetter, error)
}

// OwnerIDGetter exposes the owner encoded in validated token claims.
type OwnerIDGetter interface {
	GetOwnerID() uuid.UUID
}

// UnauthorizedHandler writes the response for a missing or invalid token.
type UnauthorizedHandler func(w http.ResponseWriter, r *http.Request, reason string)

func defaultUnauthorized(w http.ResponseWriter, _ *http.Request, _ string) {
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}

// AuthMiddleware rejects requests without a valid bearer token and stores the
// token's owner in the request context.
func AuthMiddleware(validator TokenValidator, onFail UnauthorizedHandler) func(http.Handler) http.Handler {
	if onFail == nil {
		onFail = defaultUnauthorized
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				onFail(w, r, "missing bearer token")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				onFail(w, r, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithOwnerID(r.Context(), claims.GetOwnerID())))
		})
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// WithOwnerID returns ctx carrying owner.
func WithOwnerID(ctx context.Context, owner uuid.UUID) context.Context {
	return context.WithValue(ctx, ownerIDKey, owner)
}

// OwnerID returns the authenticated owner, or uuid.Nil for unauthenticated
// requests when auth is disabled.
func OwnerID(r *http.Request) uuid.UUID {
	owner, ok := r.Context().Value(ownerIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return owner
}
