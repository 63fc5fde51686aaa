package recurring

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/pocketledger/internal/api"
)

// Handler exposes recurring expense management over JSON.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Patch("/{id}", h.toggle)
	r.Delete("/{id}", h.delete)
}

type createRequest struct {
	CategoryID  *uuid.UUID      `json:"category_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DayOfMonth  int             `json:"day_of_month"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context(), api.UserID(r.Context()))
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "failed to list recurring expenses")
		return
	}
	if items == nil {
		items = []RecurringExpense{}
	}
	api.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.svc.Create(r.Context(), api.UserID(r.Context()),
		req.CategoryID, req.Description, req.Amount, req.DayOfMonth)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDescription),
			errors.Is(err, ErrInvalidAmount),
			errors.Is(err, ErrInvalidDay):
			api.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			api.WriteError(w, http.StatusInternalServerError, "failed to create recurring expense")
		}
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid recurring expense id")
		return
	}

	var req struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.SetActive(r.Context(), api.UserID(r.Context()), id, req.Active); err != nil {
		if errors.Is(err, ErrNotFound) {
			api.WriteError(w, http.StatusNotFound, "recurring expense not found")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "failed to update recurring expense")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid recurring expense id")
		return
	}

	if err := h.svc.Delete(r.Context(), api.UserID(r.Context()), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			api.WriteError(w, http.StatusNotFound, "recurring expense not found")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "failed to delete recurring expense")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
