package agenda

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/elmarkeb/clinicdesk/internal/appointments"
	"github.com/elmarkeb/clinicdesk/internal/catalog"
	"github.com/elmarkeb/clinicdesk/internal/patients"
	"github.com/elmarkeb/clinicdesk/internal/schedule"
	"github.com/elmarkeb/clinicdesk/pkg/logging"
)

// AppointmentSource supplies the appointments inside a time window.
type AppointmentSource interface {
	ListRange(ctx context.Context, from, to time.Time) ([]appointments.Appointment, error)
}

// PatientLister supplies the patients joined into the views.
type PatientLister interface {
	List(ctx context.Context) ([]patients.Patient, error)
}

// ServiceLister supplies the services joined into the views.
type ServiceLister interface {
	List(ctx context.Context) ([]catalog.Service, error)
}

// Handler serves the calendar views.
type Handler struct {
	appts     AppointmentSource
	patients  PatientLister
	services  ServiceLister
	catalog   schedule.Catalog
	weekStart time.Weekday
	loc       *time.Location
	now       func() time.Time
	logger    *logging.Logger
}

func NewHandler(appts AppointmentSource, pts PatientLister, svcs ServiceLister, slotCatalog schedule.Catalog, weekStart time.Weekday, loc *time.Location, logger *logging.Logger) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		appts:     appts,
		patients:  pts,
		services:  svcs,
		catalog:   slotCatalog,
		weekStart: weekStart,
		loc:       loc,
		now:       time.Now,
		logger:    logger,
	}
}

// Week handles GET /agenda/week. The optional date param ("2006-01-02")
// selects the week containing it; it defaults to today.
func (h *Handler) Week(w http.ResponseWriter, r *http.Request) {
	ref, ok := h.refDate(w, r)
	if !ok {
		return
	}

	week := schedule.WeekOf(ref, h.weekStart)
	from := week[0]
	to := schedule.DayEnd(week[len(week)-1])

	builder, appts, ok := h.load(w, r, from, to)
	if !ok {
		return
	}

	writeJSON(w, builder.WeekView(ref, h.weekStart, appts))
}

// Day handles GET /agenda/day, the dashboard list for one date.
func (h *Handler) Day(w http.ResponseWriter, r *http.Request) {
	ref, ok := h.refDate(w, r)
	if !ok {
		return
	}

	builder, appts, ok := h.load(w, r, ref, schedule.DayEnd(ref))
	if !ok {
		return
	}

	view := builder.Day(ref, appts)

	// Suggest the next bookable slot so the booking form can prefill.
	resp := struct {
		DayView
		NextFreeSlot string `json:"nextFreeSlot"`
	}{
		DayView:      view,
		NextFreeSlot: h.catalog.NextFreeSlot(ref, h.now().In(h.loc), appointments.StartTimes(appts)),
	}
	writeJSON(w, resp)
}

// refDate parses the date query param into clinic-local midnight.
func (h *Handler) refDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	s := r.URL.Query().Get("date")
	if s == "" {
		return schedule.DayStart(h.now().In(h.loc)), true
	}
	ref, err := time.ParseInLocation("2006-01-02", s, h.loc)
	if err != nil {
		http.Error(w, "invalid date, use YYYY-MM-DD", http.StatusBadRequest)
		return time.Time{}, false
	}
	return ref, true
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request, from, to time.Time) (*Builder, []appointments.Appointment, bool) {
	ctx := r.Context()

	appts, err := h.appts.ListRange(ctx, from, to)
	if err != nil {
		h.logger.Error("failed to load appointments for agenda", "error", err)
		http.Error(w, "failed to load agenda", http.StatusBadGateway)
		return nil, nil, false
	}
	pts, err := h.patients.List(ctx)
	if err != nil {
		h.logger.Error("failed to load patients for agenda", "error", err)
		http.Error(w, "failed to load agenda", http.StatusBadGateway)
		return nil, nil, false
	}
	svcs, err := h.services.List(ctx)
	if err != nil {
		h.logger.Error("failed to load services for agenda", "error", err)
		http.Error(w, "failed to load agenda", http.StatusBadGateway)
		return nil, nil, false
	}

	return NewBuilder(pts, svcs, h.catalog, h.loc), appts, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
