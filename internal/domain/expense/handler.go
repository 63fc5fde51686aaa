package expense

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/pocketledger/internal/api"
)

const dateLayout = "2006-01-02"

// Handler exposes expense CRUD and the monthly summary over JSON.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Get("/summary", h.summary)
}

type expenseRequest struct {
	CategoryID  *uuid.UUID      `json:"category_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate string          `json:"expense_date"`
}

func (req *expenseRequest) toInput() (Input, error) {
	date, err := time.Parse(dateLayout, req.ExpenseDate)
	if err != nil {
		return Input{}, ErrInvalidDate
	}
	return Input{
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Amount:      req.Amount,
		ExpenseDate: date,
	}, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	f := Filter{}
	q := r.URL.Query()

	if raw := q.Get("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "invalid category_id")
			return
		}
		f.CategoryID = &id
	}
	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "invalid from date")
			return
		}
		f.From = &t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "invalid to date")
			return
		}
		f.To = &t
	}

	expenses, err := h.svc.List(r.Context(), api.UserID(r.Context()), f)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "failed to list expenses")
		return
	}
	if expenses == nil {
		expenses = []Expense{}
	}
	api.WriteJSON(w, http.StatusOK, expenses)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := req.toInput()
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.svc.Create(r.Context(), api.UserID(r.Context()), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := req.toInput()
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.svc.Update(r.Context(), api.UserID(r.Context()), id, in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	if err := h.svc.Delete(r.Context(), api.UserID(r.Context()), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	day := time.Now().UTC()
	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := time.Parse("2006-01", raw)
		if err != nil {
			api.WriteError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
			return
		}
		day = parsed
	}

	totals, err := h.svc.MonthlySummary(r.Context(), api.UserID(r.Context()), day)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "failed to build summary")
		return
	}
	if totals == nil {
		totals = []CategoryTotal{}
	}
	api.WriteJSON(w, http.StatusOK, totals)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		api.WriteError(w, http.StatusNotFound, "expense not found")
	case errors.Is(err, ErrInvalidDescription),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidDate):
		api.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		api.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
