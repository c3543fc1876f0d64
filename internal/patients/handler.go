package patients

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/elmarkeb/clinicdesk/pkg/logging"
)

// Handler handles HTTP requests for patient records
type Handler struct {
	store  Store
	logger *logging.Logger
}

// NewHandler creates a new patients handler
func NewHandler(store Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// List handles GET /patients
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list patients", "error", err)
		http.Error(w, "failed to list patients", http.StatusBadGateway)
		return
	}
	if all == nil {
		all = []Patient{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(all)
}

// Create handles POST /patients
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.store.Create(r.Context(), &req)
	if err != nil {
		h.fail(w, "create patient", err)
		return
	}

	h.logger.Info("patient registered", "id", p.ID, "name", p.Name)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(p)
}

// Get handles GET /patients/{patientID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "patientID")
	p, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "load patient", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

// Update handles PUT /patients/{patientID}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "patientID")

	var req UpdatePatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.store.Update(r.Context(), id, &req)
	if err != nil {
		h.fail(w, "update patient", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p)
}

// Delete handles DELETE /patients/{patientID}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "patientID")
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete patient", err)
		return
	}

	h.logger.Info("patient deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, ErrPatientNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrMissingName),
		errors.Is(err, ErrMissingPhone),
		errors.Is(err, ErrInvalidDateOfBirth),
		errors.Is(err, ErrInvalidGender):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("failed to "+action, "error", err)
		http.Error(w, "failed to "+action, http.StatusBadGateway)
	}
}
