package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rrcordoba/volky/internal/leads"
	"github.com/rrcordoba/volky/pkg/logging"
)

// AdminLeadsHandler exposes the lead store to the sales dashboard.
type AdminLeadsHandler struct {
	repo   leads.Repository
	logger *logging.Logger
}

// NewAdminLeadsHandler creates the handler.
func NewAdminLeadsHandler(repo leads.Repository, logger *logging.Logger) *AdminLeadsHandler {
	if repo == nil {
		panic("handlers: leads repository is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminLeadsHandler{repo: repo, logger: logger}
}

// LeadsListResponse is the admin listing payload.
type LeadsListResponse struct {
	Leads map[string]leads.Lead `json:"leads"`
	Total int                   `json:"total"`
}

// List returns every stored lead keyed by phone.
func (h *AdminLeadsHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("lead listing failed", "error", err)
		http.Error(w, "failed to list leads", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, LeadsListResponse{Leads: all, Total: len(all)})
}

// Get returns one lead by phone.
func (h *AdminLeadsHandler) Get(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")
	lead, err := h.repo.Get(r.Context(), phone)
	if errors.Is(err, leads.ErrLeadNotFound) {
		http.Error(w, "lead not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("lead lookup failed", "phone", phone, "error", err)
		http.Error(w, "failed to load lead", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// Delete removes one lead by phone.
func (h *AdminLeadsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	phone := chi.URLParam(r, "phone")
	if err := h.repo.Delete(r.Context(), phone); err != nil {
		h.logger.Error("lead delete failed", "phone", phone, "error", err)
		http.Error(w, "failed to delete lead", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
