// Package visits exposes a patient's treatment history: every
// completed or past appointment, joined with service details and any
// uploaded attachments.
package visits

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/elmarkeb/clinicdesk/internal/appointments"
	"github.com/elmarkeb/clinicdesk/internal/catalog"
	"github.com/elmarkeb/clinicdesk/internal/patients"
	"github.com/elmarkeb/clinicdesk/pkg/logging"
)

// Visit is one row of a patient's history, most recent first.
type Visit struct {
	AppointmentID string       `json:"appointmentId"`
	ServiceID     string       `json:"serviceId"`
	ServiceName   string       `json:"serviceName"`
	Price         int64        `json:"price"`
	StartsAt      string       `json:"startsAt"`
	Reason        string       `json:"reason,omitempty"`
	Completed     bool         `json:"completed"`
	Attachments   []Attachment `json:"attachments,omitempty"`
}

// AppointmentLister supplies the full appointment history.
type AppointmentLister interface {
	List(ctx context.Context) ([]appointments.Appointment, error)
}

// PatientGetter resolves the patient whose history is requested.
type PatientGetter interface {
	Get(ctx context.Context, id string) (*patients.Patient, error)
}

// ServiceLister supplies the price catalog for the join.
type ServiceLister interface {
	List(ctx context.Context) ([]catalog.Service, error)
}

// Handler serves GET /patients/{patientID}/visits.
type Handler struct {
	appts       AppointmentLister
	patientDir  PatientGetter
	services    ServiceLister
	attachments *AttachmentStore
	now         func() time.Time
	logger      *logging.Logger
}

func NewHandler(appts AppointmentLister, patientDir PatientGetter, svcs ServiceLister, attachments *AttachmentStore, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		appts:       appts,
		patientDir:  patientDir,
		services:    svcs,
		attachments: attachments,
		now:         time.Now,
		logger:      logger,
	}
}

// List handles GET /patients/{patientID}/visits. A visit is any
// appointment for the patient that is completed or already in the
// past, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	patientID := chi.URLParam(r, "patientID")

	if _, err := h.patientDir.Get(ctx, patientID); err != nil {
		if errors.Is(err, patients.ErrPatientNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load patient for visits", "id", patientID, "error", err)
		http.Error(w, "failed to load visits", http.StatusBadGateway)
		return
	}

	appts, err := h.appts.List(ctx)
	if err != nil {
		h.logger.Error("failed to load appointments for visits", "error", err)
		http.Error(w, "failed to load visits", http.StatusBadGateway)
		return
	}
	svcs, err := h.services.List(ctx)
	if err != nil {
		h.logger.Error("failed to load services for visits", "error", err)
		http.Error(w, "failed to load visits", http.StatusBadGateway)
		return
	}

	prices := make(map[string]*catalog.Service, len(svcs))
	for i := range svcs {
		prices[svcs[i].ID] = &svcs[i]
	}

	now := h.now()
	visits := []Visit{}
	for _, a := range appts {
		if a.PatientID != patientID {
			continue
		}
		start := a.Start()
		if !a.Completed && (start.IsZero() || start.After(now)) {
			continue
		}

		v := Visit{
			AppointmentID: a.ID,
			ServiceID:     a.ServiceID,
			ServiceName:   a.ServiceName,
			StartsAt:      a.StartsAt,
			Reason:        a.Reason,
			Completed:     a.Completed,
		}
		if svc, ok := prices[a.ServiceID]; ok {
			v.ServiceName = svc.Name
			v.Price = svc.Price
		}

		atts, err := h.attachments.List(ctx, patientID, a.ID)
		if err != nil {
			// History stays useful without files.
			h.logger.Warn("failed to list visit attachments", "appointment", a.ID, "error", err)
		} else {
			v.Attachments = atts
		}
		visits = append(visits, v)
	}

	sort.SliceStable(visits, func(i, j int) bool {
		return visits[i].StartsAt > visits[j].StartsAt
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(visits)
}
