// Package http provides HTTP handlers for PIN login, session resolution,
// and the ledger API.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/heybori/cashflow/internal/auth"
)

// Authenticator defines the credential operations required by the HTTP
// handlers and the auth middleware.
type Authenticator interface {
	// Mode reports the configured authorization mode.
	Mode() auth.Mode
	// Required reports whether callers must present a credential.
	Required() bool
	// Authenticate resolves a bearer token into a session.
	Authenticate(token string) auth.Session
	// Login exchanges a raw PIN for a bearer token and optional program
	// scope.
	Login(pin string) (token, program string, err error)
}

// AuthHandler handles HTTP requests for session resolution and login.
type AuthHandler struct {
	// Auth performs the underlying credential operations.
	Auth Authenticator
}

// LoginRequest represents the JSON payload for PIN login.
type LoginRequest struct {
	// Pin is the raw PIN to exchange for a token.
	Pin string `json:"pin"`
}

// Session handles GET /api/session requests.
// It reports whether authentication is required, the configured mode, and —
// when the caller presents a valid token — the program scope bound to it.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	var scope *string
	if token := r.Header.Get("X-Auth"); token != "" {
		if s := h.Auth.Authenticate(token); s.Authorized && s.Program != "" {
			scope = &s.Program
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"authRequired": h.Auth.Required(),
		"mode":         h.Auth.Mode(),
		"programScope": scope,
	})
}

// Login handles POST /api/login requests.
// It expects a JSON body with a "pin" field, hashes the PIN, and performs
// the credential lookup. The returned token is the digest the client must
// present as X-Auth on protected calls. A wrong PIN is rejected with 403
// and the distinct "invalid pin" error.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	token, program, err := h.Auth.Login(req.Pin)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredential) {
			writeError(w, http.StatusForbidden, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	var scope *string
	if program != "" {
		scope = &program
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"token":   token,
		"program": scope,
		"mode":    h.Auth.Mode(),
	})
}
