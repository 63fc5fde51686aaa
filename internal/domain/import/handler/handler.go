// Package handler exposes the statement import flow over HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/pocketledger/internal/api"
	importservice "github.com/FACorreiaa/pocketledger/internal/domain/import/service"
	"github.com/FACorreiaa/pocketledger/internal/domain/import/sniffer"
)

// ImportHandler drives the three-step import flow.
type ImportHandler struct {
	svc          *importservice.ImportService
	maxFileBytes int64
}

func NewImportHandler(svc *importservice.ImportService, maxFileBytes int64) *ImportHandler {
	return &ImportHandler{svc: svc, maxFileBytes: maxFileBytes}
}

func (h *ImportHandler) Routes(r chi.Router) {
	r.Post("/analyze", h.analyze)
	r.Post("/parse", h.parse)
	r.Post("/commit", h.commit)
	r.Get("/history", h.history)
}

// analyze accepts a multipart upload under the "file" field and returns
// the preview plus column suggestions.
func (h *ImportHandler) analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "file upload is required")
		return
	}
	defer file.Close()

	name := strings.ToLower(header.Filename)
	if !strings.HasSuffix(name, ".csv") && !strings.HasSuffix(name, ".txt") {
		api.WriteError(w, http.StatusBadRequest, "only .csv and .txt files are supported")
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			api.WriteError(w, http.StatusRequestEntityTooLarge, "file is too large")
			return
		}
		api.WriteError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	analysis, err := h.svc.Analyze(r.Context(), api.UserID(r.Context()), string(content))
	if err != nil {
		if errors.Is(err, sniffer.ErrEmptyFile) {
			api.WriteError(w, http.StatusBadRequest, "file contains no data")
			return
		}
		if errors.Is(err, importservice.ErrTooManyRows) {
			api.WriteError(w, http.StatusRequestEntityTooLarge, "file has too many rows")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "failed to analyze file")
		return
	}
	api.WriteJSON(w, http.StatusOK, analysis)
}

func (h *ImportHandler) parse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileBytes*2)

	var req importservice.ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		api.WriteError(w, http.StatusBadRequest, "text is required")
		return
	}

	resp, err := h.svc.Parse(r.Context(), api.UserID(r.Context()), req)
	if err != nil {
		if errors.Is(err, importservice.ErrTooManyRows) {
			api.WriteError(w, http.StatusRequestEntityTooLarge, "file has too many rows")
			return
		}
		api.WriteError(w, http.StatusInternalServerError, "failed to parse file")
		return
	}
	api.WriteJSON(w, http.StatusOK, resp)
}

func (h *ImportHandler) commit(w http.ResponseWriter, r *http.Request) {
	var req importservice.CommitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Rows) == 0 {
		api.WriteError(w, http.StatusBadRequest, "no rows to import")
		return
	}

	result, err := h.svc.Commit(r.Context(), api.UserID(r.Context()), req)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "failed to commit import")
		return
	}
	api.WriteJSON(w, http.StatusCreated, result)
}

func (h *ImportHandler) history(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	jobs, err := h.svc.History(r.Context(), api.UserID(r.Context()), limit)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, "failed to list import history")
		return
	}
	if jobs == nil {
		jobs = []importservice.Job{}
	}
	api.WriteJSON(w, http.StatusOK, jobs)
}
