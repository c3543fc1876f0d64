package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/elmarkeb/clinicdesk/pkg/logging"
)

// Handler handles HTTP requests for the service catalog
type Handler struct {
	store  Store
	logger *logging.Logger
}

// NewHandler creates a new catalog handler
func NewHandler(store Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// List handles GET /services
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list services", "error", err)
		http.Error(w, "failed to list services", http.StatusBadGateway)
		return
	}
	if all == nil {
		all = []Service{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(all)
}

// Create handles POST /services
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s, err := h.store.Create(r.Context(), &req)
	if err != nil {
		h.fail(w, "create service", err)
		return
	}

	h.logger.Info("service added", "id", s.ID, "name", s.Name, "price", s.Price)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(s)
}

// Get handles GET /services/{serviceID}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "serviceID")
	s, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get service", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s)
}

// Update handles PUT /services/{serviceID}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "serviceID")

	var req UpdateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s, err := h.store.Update(r.Context(), id, &req)
	if err != nil {
		h.fail(w, "update service", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s)
}

// Delete handles DELETE /services/{serviceID}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "serviceID")
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete service", err)
		return
	}

	h.logger.Info("service deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(w http.ResponseWriter, action string, err error) {
	switch {
	case errors.Is(err, ErrServiceNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrMissingName), errors.Is(err, ErrNegativePrice):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error("failed to "+action, "error", err)
		http.Error(w, "failed to "+action, http.StatusBadGateway)
	}
}
