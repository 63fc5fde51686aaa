package budget

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/pocketledger/internal/api"
)

// Handler exposes budget management over JSON.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/status", h.status)
	r.Put("/", h.set)
	r.Delete("/{id}", h.delete)
}

type setRequest struct {
	CategoryID   *uuid.UUID `json:"category_id"`
	AmountCents  int64      `json:"amount_cents"`
	CurrencyCode string     `json:"currency_code"`
	Month        string     `json:"month"`
}

func (h *Handler) set(w http.ResponseWriter, r *http.Request) {
	var req setRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	month, err := time.Parse("2006-01", req.Month)
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
		return
	}

	b, err := h.svc.Set(r.Context(), api.UserID(r.Context()),
		req.CategoryID, req.AmountCents, req.CurrencyCode, month)
	if err != nil {
		if errors.Is(err, ErrInvalidAmount) {
			api.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "failed to set budget")
		return
	}
	api.WriteJSON(w, http.StatusOK, b)
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	day := time.Now().UTC()
	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
			return
		}
		day = parsed
	}

	statuses, err := h.svc.StatusForMonth(r.Context(), api.UserID(r.Context()), day)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "failed to compute budget status")
		return
	}
	if statuses == nil {
		statuses = []Status{}
	}
	api.WriteJSON(w, http.StatusOK, statuses)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid budget id")
		return
	}

	if err := h.svc.Delete(r.Context(), api.UserID(r.Context()), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			api.WriteError(w, http.StatusNotFound, "budget not found")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "failed to delete budget")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
