// Package middleware provides HTTP middlewares for authentication and logging.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/heybori/cashflow/internal/auth"
)

type ctxKey string

const sessionKey ctxKey = "session"

// TokenAuth enforces bearer-token authentication on protected routes.
//
// It resolves the X-Auth header against the immutable credential table built
// at startup. In open mode every request passes with an unscoped session. In
// single or multi mode a missing or unknown token is rejected with 401 and a
// machine-readable {ok:false} body.
//
// On success the resolved session, including any program scope, is stored in
// the request context for downstream handlers.
func TokenAuth(creds *auth.Credentials) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := creds.Authenticate(r.Header.Get("X-Auth"))
			if !session.Authorized {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"ok":    false,
					"error": auth.ErrAuthRequired.Error(),
				})
				return
			}
			ctx := context.WithValue(r.Context(), sessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionFromContext extracts the authenticated session stored by
// TokenAuth. Returns an unauthorized zero session if not found.
func GetSessionFromContext(ctx context.Context) auth.Session {
	if s, ok := ctx.Value(sessionKey).(auth.Session); ok {
		return s
	}
	return auth.Session{}
}
