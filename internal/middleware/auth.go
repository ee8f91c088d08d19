package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/arina0022/ya-note/pkg/auth"
)

type key string

const userKey key = "user"

// JWT guards every note route: requests without a valid bearer token are
// answered with a challenge before any handler runs, so anonymous callers
// can never reach the domain layer.
func JWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			challenge(w, "missing authorization header")
			return
		}
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			challenge(w, "invalid authorization header")
			return
		}
		claims, err := auth.ParseToken(parts[1])
		if err != nil {
			challenge(w, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func challenge(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="notes"`)
	http.Error(w, msg, http.StatusUnauthorized)
}

func GetUserID(ctx context.Context) int64 {
	if uid, ok := ctx.Value(userKey).(int64); ok {
		return uid
	}
	return 0
}
