package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/elmarkeb/clinicdesk/internal/catalog"
	"github.com/elmarkeb/clinicdesk/internal/observability/metrics"
	"github.com/elmarkeb/clinicdesk/internal/patients"
	"github.com/elmarkeb/clinicdesk/internal/schedule"
	"github.com/elmarkeb/clinicdesk/pkg/logging"
)

// PatientDirectory resolves patient references at booking time.
type PatientDirectory interface {
	Get(ctx context.Context, id string) (*patients.Patient, error)
}

// ServiceDirectory resolves service references at booking time.
type ServiceDirectory interface {
	Get(ctx context.Context, id string) (*catalog.Service, error)
}

// BookAppointmentRequest is the request body for booking.
type BookAppointmentRequest struct {
	schedule.BookingRequest
	Reason string `json:"reason,omitempty"`
}

// Handler handles HTTP requests for appointments. Booking validation
// runs unconditionally against the day's stored appointments, so a
// conflicting or past slot can never be persisted.
type Handler struct {
	store      Store
	patientDir PatientDirectory
	serviceDir ServiceDirectory
	loc        *time.Location
	now        func() time.Time
	metrics    *metrics.BookingMetrics
	logger     *logging.Logger
}

// NewHandler creates a new appointments handler. loc is the clinic's
// timezone; booking dates and times are interpreted in it.
func NewHandler(store Store, patientDir PatientDirectory, serviceDir ServiceDirectory, loc *time.Location, m *metrics.BookingMetrics, logger *logging.Logger) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		store:      store,
		patientDir: patientDir,
		serviceDir: serviceDir,
		loc:        loc,
		now:        time.Now,
		metrics:    m,
		logger:     logger,
	}
}

// List handles GET /appointments. With from/to query params (RFC3339,
// both or neither) it returns the inclusive range, otherwise everything.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var from, to *time.Time
	if s := r.URL.Query().Get("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			http.Error(w, "invalid from time, use RFC3339 format", http.StatusBadRequest)
			return
		}
		from = &t
	}
	if s := r.URL.Query().Get("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			http.Error(w, "invalid to time, use RFC3339 format", http.StatusBadRequest)
			return
		}
		to = &t
	}
	if (from == nil) != (to == nil) {
		http.Error(w, "both from and to must be provided, or neither", http.StatusBadRequest)
		return
	}

	var (
		appts []Appointment
		err   error
	)
	if from != nil {
		appts, err = h.store.ListRange(r.Context(), *from, *to)
	} else {
		appts, err = h.store.List(r.Context())
	}
	if err != nil {
		h.logger.Error("failed to list appointments", "error", err)
		http.Error(w, "failed to list appointments", http.StatusBadGateway)
		return
	}
	if appts == nil {
		appts = []Appointment{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appts)
}

// Create handles POST /appointments.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	day, err := schedule.CombineDateTime(req.Date, "00:00", h.loc)
	if err != nil {
		h.metrics.ObserveBooking("missing_field")
		http.Error(w, schedule.ErrMissingField.Error(), http.StatusBadRequest)
		return
	}

	sameDay, err := h.store.ListRange(r.Context(), day, schedule.DayEnd(day))
	if err != nil {
		h.metrics.ObserveBooking("store_error")
		h.logger.Error("failed to load day before booking", "date", req.Date, "error", err)
		http.Error(w, "failed to check availability", http.StatusBadGateway)
		return
	}

	at, err := schedule.ValidateBooking(req.BookingRequest, StartTimes(sameDay), h.now().In(h.loc))
	if err != nil {
		h.rejectBooking(w, err)
		return
	}

	patient, err := h.patientDir.Get(r.Context(), req.PatientID)
	if err != nil {
		h.rejectBooking(w, err)
		return
	}
	service, err := h.serviceDir.Get(r.Context(), req.ServiceID)
	if err != nil {
		h.rejectBooking(w, err)
		return
	}

	appt := &Appointment{
		ID:          uuid.NewString(),
		PatientID:   patient.ID,
		PatientName: patient.Name,
		ServiceID:   service.ID,
		ServiceName: service.Name,
		StartsAt:    at.UTC().Format(time.RFC3339),
		Reason:      req.Reason,
	}
	if err := h.store.Create(r.Context(), appt); err != nil {
		h.metrics.ObserveBooking("store_error")
		h.logger.Error("failed to persist booking", "error", err)
		http.Error(w, "failed to book appointment", http.StatusBadGateway)
		return
	}

	h.metrics.ObserveBooking("created")
	h.logger.Info("appointment booked",
		"id", appt.ID,
		"patient", appt.PatientID,
		"service", appt.ServiceID,
		"at", appt.StartsAt,
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(appt)
}

// CompleteRequest is the request body for the completion toggle.
type CompleteRequest struct {
	Completed *bool `json:"completed,omitempty"`
}

// Complete handles PATCH /appointments/{appointmentID}/complete. An
// empty body marks the appointment completed.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appointmentID")

	completed := true
	var req CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Completed != nil {
		completed = *req.Completed
	}

	appt, err := h.store.SetCompleted(r.Context(), id, completed)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("failed to toggle completion", "id", id, "error", err)
		http.Error(w, "failed to update appointment", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(appt)
}

func (h *Handler) rejectBooking(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schedule.ErrMissingField):
		h.metrics.ObserveBooking("missing_field")
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, schedule.ErrPastDateTime):
		h.metrics.ObserveBooking("past_datetime")
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, schedule.ErrSlotConflict):
		h.metrics.ObserveBooking("slot_conflict")
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, patients.ErrPatientNotFound), errors.Is(err, catalog.ErrServiceNotFound):
		h.metrics.ObserveBooking("missing_field")
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.metrics.ObserveBooking("store_error")
		h.logger.Error("booking failed", "error", err)
		http.Error(w, "failed to book appointment", http.StatusBadGateway)
	}
}
