package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"chitieu/internal/core"
	"chitieu/internal/store"
	"chitieu/internal/theme"
)

// handleView applies any filter query parameters and returns the derived
// snapshot. Filter changes never reload from the store.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("category") {
		s.tracker.SetCategoryFilter(q.Get("category"))
	}
	if q.Has("month") {
		s.tracker.SetMonthFilter(q.Get("month"))
	}
	respondJSON(w, http.StatusOK, s.tracker.View())
}

// handleListExpenses reloads from the store and returns the full list.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	if err := s.tracker.Load(r.Context()); err != nil {
		respondError(w, storeStatus(err), s.tracker.View().Error)
		return
	}
	respondJSON(w, http.StatusOK, s.tracker.View().Expenses)
}

// draftRequest is the create payload. Amount accepts a JSON number or a
// decimal string; Date is YYYY-MM-DD.
type draftRequest struct {
	Description string        `json:"description"`
	Amount      core.Money    `json:"amount"`
	Category    core.Category `json:"category"`
	Date        core.Date     `json:"date"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	draft := core.Expense{
		Description: req.Description,
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        req.Date,
	}

	id, err := s.tracker.Add(r.Context(), draft)
	if err != nil {
		if isValidationError(err) {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		respondError(w, storeStatus(err), s.tracker.View().Error)
		return
	}

	slog.InfoContext(r.Context(), "Expense created",
		"expense_id", id,
		"category", draft.Category,
		"amount_cents", draft.Amount.Cents)
	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "missing expense id")
		return
	}

	if err := s.tracker.Delete(r.Context(), id); err != nil {
		respondError(w, storeStatus(err), s.tracker.View().Error)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type categoryInfo struct {
	Value string `json:"value"`
	Color string `json:"color"`
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	cats := core.Categories()
	out := make([]categoryInfo, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryInfo{Value: string(c), Color: c.Color()})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	pref, err := s.themes.Get(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cannot read theme preference")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"theme": pref})
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Theme string `json:"theme"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := s.themes.Set(r.Context(), req.Theme); err != nil {
		if errors.Is(err, theme.ErrInvalidPreference) {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "cannot store theme preference")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// storeStatus maps the port's failure taxonomy to response codes.
func storeStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, store.ErrReadFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrEmptyDescription) ||
		errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidCategory) ||
		errors.Is(err, core.ErrInvalidDate)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
