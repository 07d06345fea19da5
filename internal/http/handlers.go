package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"pennywise/internal/core"
	"pennywise/internal/ledger"
)

// handleBudget serves the resolved settings and accepts partial updates.
// GET never fails: an unreachable or never-written store resolves to the
// built-in defaults.
func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.resolver.Resolve(r.Context()))

	case http.MethodPut:
		var patch core.SettingsPatch
		if err := decodeJSON(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "malformed request body")
			return
		}
		merged, err := s.resolver.Save(r.Context(), patch)
		if err != nil {
			if isValidationError(err) {
				writeError(w, http.StatusUnprocessableEntity, err.Error())
				return
			}
			slog.ErrorContext(r.Context(), "Budget save failed", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save budget settings")
			return
		}
		writeJSON(w, http.StatusOK, merged)

	default:
		methodNotAllowed(w, "GET, PUT")
	}
}

// handleTransactions is the ledger surface: the trailing-window list, the
// append, and the delete by id.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		txs := s.ledger.Window(r.Context())
		if txs == nil {
			txs = []core.Transaction{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"transactions": txs})

	case http.MethodPost:
		var req struct {
			Fund     string     `json:"fund"`
			Amount   core.Money `json:"amount"`
			Category string     `json:"category"`
		}
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "malformed request body")
			return
		}
		tx, err := s.ledger.Record(r.Context(), ledger.NewFlow(), req.Fund, req.Amount, req.Category)
		if err != nil {
			if isValidationError(err) {
				writeError(w, http.StatusUnprocessableEntity, err.Error())
				return
			}
			slog.ErrorContext(r.Context(), "Transaction insert failed", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to record transaction")
			return
		}
		writeJSON(w, http.StatusCreated, tx)

	case http.MethodDelete:
		id := strings.TrimSpace(r.URL.Query().Get("id"))
		if id == "" {
			writeError(w, http.StatusBadRequest, "missing transaction id")
			return
		}
		if err := s.ledger.Remove(r.Context(), id); err != nil {
			slog.ErrorContext(r.Context(), "Transaction delete failed", "error", err, "id", id)
			writeError(w, http.StatusInternalServerError, "failed to delete transaction")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

	default:
		methodNotAllowed(w, "GET, POST, DELETE")
	}
}

// handleDashboard serves the aggregated view: totals, percent used,
// allocation status, and per-category summaries over the trailing window.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	snapshot := s.resolver.Resolve(r.Context())
	writeJSON(w, http.StatusOK, s.ledger.Summary(r.Context(), snapshot))
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrNegativeBudget) ||
		errors.Is(err, core.ErrEmptyFund) ||
		errors.Is(err, core.ErrEmptyCategory) ||
		errors.Is(err, core.ErrEmptyName) ||
		errors.Is(err, core.ErrEmptyID) ||
		errors.Is(err, core.ErrDuplicateID)
}
