package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/tablekeep/pos-api/internal/auth"
)

type ctxKey struct{}

// LocationParam is the route parameter carrying the location ID.
const LocationParam = "lid"

// Authenticate requires a valid access token in the Authorization header
// and stores its claims on the request context.
func Authenticate(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, msg := bearerToken(r)
			if msg != "" {
				deny(w, http.StatusUnauthorized, msg)
				return
			}
			claims, err := auth.ValidateToken(jwtSecret, token)
			if err != nil {
				deny(w, http.StatusUnauthorized, "invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func bearerToken(r *http.Request) (string, string) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", "missing authorization header"
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" {
		return "", "invalid authorization format"
	}
	return token, ""
}

// RequireLocation scopes a route group to the {lid} in its path.
func RequireLocation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		if claims == nil {
			deny(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		lid, err := uuid.Parse(r.PathValue(LocationParam))
		if err != nil {
			deny(w, http.StatusBadRequest, "invalid location ID")
			return
		}
		if !claims.CanAccess(lid) {
			deny(w, http.StatusForbidden, "access denied for this location")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole lets through only the listed roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				deny(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			if _, ok := allowed[claims.Role]; !ok {
				deny(w, http.StatusForbidden, "insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromContext returns nil outside an authenticated request.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(ctxKey{}).(*auth.Claims)
	return claims
}

func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, claims)
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg}) //nolint:errcheck
}
