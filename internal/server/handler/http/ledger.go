package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/heybori/cashflow/internal/auth"
	"github.com/heybori/cashflow/internal/ledger"
	"github.com/heybori/cashflow/internal/middleware"
	"github.com/heybori/cashflow/internal/models"
	"github.com/heybori/cashflow/internal/service"
)

// LedgerService defines the ledger operations required by the HTTP handlers.
type LedgerService interface {
	Add(ctx context.Context, params ledger.EntryParams, session auth.Session) (models.Entry, error)
	List(ctx context.Context, filters ledger.Filters, session auth.Session) ([]models.Entry, error)
	Summarize(ctx context.Context, windowDays int, filters ledger.Filters, session auth.Session) (models.Summary, error)
	ExportCSV(ctx context.Context, w io.Writer, filters ledger.Filters, session auth.Session) error
	Remove(ctx context.Context, id string, session auth.Session) error
}

// LedgerHandler handles HTTP requests for the ledger API.
type LedgerHandler struct {
	Ledger LedgerService
}

// AddRequest represents the JSON payload for adding an entry. Amount is kept
// raw so both JSON numbers and quoted strings are accepted; validation
// happens in one explicit step in the domain layer.
type AddRequest struct {
	Type     string          `json:"type"`
	Amount   json.RawMessage `json:"amount"`
	Category string          `json:"category"`
	Note     string          `json:"note"`
	Date     string          `json:"date"`
	Team     string          `json:"team"`
	League   string          `json:"league"`
	Program  string          `json:"program"`
}

// DeleteRequest represents the JSON payload for removing an entry by id.
type DeleteRequest struct {
	ID string `json:"id"`
}

// Add handles POST /api/ledger/add requests. The entry is validated and
// normalized before it reaches storage; a scoped session's program silently
// overrides whatever the payload names.
func (h *LedgerHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := middleware.GetSessionFromContext(ctx)

	var req AddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	entry, err := h.Ledger.Add(ctx, ledger.EntryParams{
		Type:     req.Type,
		Amount:   rawAmount(req.Amount),
		Category: req.Category,
		Note:     req.Note,
		Date:     req.Date,
		Team:     req.Team,
		League:   req.League,
		Program:  req.Program,
	}, session)
	if err != nil {
		var verr *ledger.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "server add error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "entry": entry})
}

// List handles GET /api/ledger/list requests, returning the filtered entry
// set newest first.
func (h *LedgerHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := middleware.GetSessionFromContext(ctx)

	entries, err := h.Ledger.List(ctx, queryFilters(r), session)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server list error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "entries": entries})
}

// Summary handles GET /api/ledger/summary requests. The range parameter is
// the trailing window in days, clamped to [1, 365] with a default of 30.
func (h *LedgerHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := middleware.GetSessionFromContext(ctx)

	days := ledger.DefaultWindowDays
	if v := r.URL.Query().Get("range"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			days = n
		}
	}

	summary, err := h.Ledger.Summarize(ctx, days, queryFilters(r), session)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server summary error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":           true,
		"rangeDays":    summary.RangeDays,
		"totals":       summary.Totals,
		"byCategory":   summary.ByCategory,
		"byTeamLeague": summary.ByTeamLeague,
		"byProgram":    summary.ByProgram,
		"count":        summary.Count,
	})
}

// Export handles GET /api/ledger/export.csv requests, streaming the filtered
// entry set as a CSV attachment.
func (h *LedgerHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := middleware.GetSessionFromContext(ctx)

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="cashflow.csv"`)
	w.Header().Set("Cache-Control", "no-store")
	if err := h.Ledger.ExportCSV(ctx, w, queryFilters(r), session); err != nil {
		// Headers are already out; nothing more useful to report.
		return
	}
}

// Delete handles POST /api/ledger/delete requests.
func (h *LedgerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := middleware.GetSessionFromContext(ctx)

	var req DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeError(w, http.StatusBadRequest, "id required")
		return
	}

	if err := h.Ledger.Remove(ctx, req.ID, session); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "server delete error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// queryFilters reads the shared filter dimensions from the query string.
func queryFilters(r *http.Request) ledger.Filters {
	q := r.URL.Query()
	return ledger.Filters{
		Team:    q.Get("team"),
		League:  q.Get("league"),
		Program: q.Get("program"),
		From:    q.Get("from"),
		To:      q.Get("to"),
	}
}

// rawAmount turns the raw JSON amount into the string the validator parses,
// accepting both 12.34 and "12.34".
func rawAmount(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "null" {
		return ""
	}
	return s
}
