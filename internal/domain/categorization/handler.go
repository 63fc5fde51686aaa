package categorization

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/pocketledger/internal/api"
)

// Handler exposes keyword rules and suggestion lookups.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/rules", h.addRule)
	r.Delete("/rules/{id}", h.removeRule)
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	description := r.URL.Query().Get("description")
	if description == "" {
		api.WriteError(w, http.StatusBadRequest, "description is required")
		return
	}

	suggestion, err := h.svc.Suggest(r.Context(), api.UserID(r.Context()), description)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "failed to suggest category")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]*Suggestion{"suggestion": suggestion})
}

func (h *Handler) addRule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Keyword    string    `json:"keyword"`
		CategoryID uuid.UUID `json:"category_id"`
		Priority   int       `json:"priority"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Keyword == "" || req.CategoryID == uuid.Nil {
		api.WriteError(w, http.StatusBadRequest, "keyword and category_id are required")
		return
	}

	rule, err := h.svc.AddRule(r.Context(), api.UserID(r.Context()), req.Keyword, req.CategoryID, req.Priority)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "failed to create rule")
		return
	}
	api.WriteJSON(w, http.StatusCreated, rule)
}

func (h *Handler) removeRule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid rule id")
		return
	}

	if err := h.svc.RemoveRule(r.Context(), api.UserID(r.Context()), id); err != nil {
		api.WriteError(w, http.StatusInternalServerError, "failed to delete rule")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
