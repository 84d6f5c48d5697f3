package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/heybori/cashflow/internal/auth"
)

func TestAuthHandler_Session(t *testing.T) {
	tests := []struct {
		name     string
		creds    *auth.Credentials
		token    string
		expected map[string]any
	}{
		{
			name:  "open mode",
			creds: auth.ParseCredentials("", ""),
			expected: map[string]any{
				"authRequired": false,
				"mode":         "none",
				"programScope": nil,
			},
		},
		{
			name:  "single mode",
			creds: auth.ParseCredentials("", "secret"),
			expected: map[string]any{
				"authRequired": true,
				"mode":         "single",
				"programScope": nil,
			},
		},
		{
			name:  "multi mode without token",
			creds: auth.ParseCredentials("1111:Alpha", ""),
			expected: map[string]any{
				"authRequired": true,
				"mode":         "multi",
				"programScope": nil,
			},
		},
		{
			name:  "multi mode with valid token reveals scope",
			creds: auth.ParseCredentials("1111:Alpha", ""),
			token: auth.Digest("1111"),
			expected: map[string]any{
				"authRequired": true,
				"mode":         "multi",
				"programScope": "Alpha",
			},
		},
		{
			name:  "multi mode with bogus token",
			creds: auth.ParseCredentials("1111:Alpha", ""),
			token: "bogus",
			expected: map[string]any{
				"authRequired": true,
				"mode":         "multi",
				"programScope": nil,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/api/session", nil)
			if tt.token != "" {
				req.Header.Set("X-Auth", tt.token)
			}

			h := &AuthHandler{Auth: tt.creds}
			h.Session(rec, req)
			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != http.StatusOK {
				t.Fatalf("expected status 200, got %d", res.StatusCode)
			}

			var payload map[string]any
			if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
				t.Fatalf("failed to decode JSON: %v", err)
			}
			for k, v := range tt.expected {
				if payload[k] != v {
					t.Errorf("expected %s=%v, got %v", k, v, payload[k])
				}
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name            string
		creds           *auth.Credentials
		body            string
		expectedCode    int
		expectedError   string
		expectedProgram any
	}{
		{
			name:         "invalid JSON",
			creds:        auth.ParseCredentials("1111:Alpha", ""),
			body:         `not a json`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:          "wrong pin",
			creds:         auth.ParseCredentials("1111:Alpha", ""),
			body:          `{"pin":"9999"}`,
			expectedCode:  http.StatusForbidden,
			expectedError: "invalid pin",
		},
		{
			name:            "multi mode success",
			creds:           auth.ParseCredentials("1111:Alpha", ""),
			body:            `{"pin":"1111"}`,
			expectedCode:    http.StatusOK,
			expectedProgram: "Alpha",
		},
		{
			name:            "single mode success has no scope",
			creds:           auth.ParseCredentials("", "secret"),
			body:            `{"pin":"secret"}`,
			expectedCode:    http.StatusOK,
			expectedProgram: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/api/login", bytes.NewBufferString(tt.body))

			h := &AuthHandler{Auth: tt.creds}
			h.Login(rec, req)
			res := rec.Result()
			defer res.Body.Close()

			if res.StatusCode != tt.expectedCode {
				t.Fatalf("expected status %d, got %d", tt.expectedCode, res.StatusCode)
			}

			var payload map[string]any
			if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
				t.Fatalf("failed to decode JSON: %v", err)
			}

			if tt.expectedError != "" {
				if payload["ok"] != false || payload["error"] != tt.expectedError {
					t.Errorf("expected error %q, got %v", tt.expectedError, payload)
				}
				return
			}
			if tt.expectedCode == http.StatusOK {
				if payload["ok"] != true {
					t.Errorf("expected ok:true, got %v", payload)
				}
				token, _ := payload["token"].(string)
				if len(token) != 64 {
					t.Errorf("expected a 64-char digest token, got %q", token)
				}
				if payload["program"] != tt.expectedProgram {
					t.Errorf("expected program %v, got %v", tt.expectedProgram, payload["program"])
				}
			}
		})
	}
}
