package revenue

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/elmarkeb/clinicdesk/internal/appointments"
	"github.com/elmarkeb/clinicdesk/internal/catalog"
	"github.com/elmarkeb/clinicdesk/internal/schedule"
	"github.com/elmarkeb/clinicdesk/pkg/logging"
)

// AppointmentSource supplies the appointments inside a time window.
type AppointmentSource interface {
	ListRange(ctx context.Context, from, to time.Time) ([]appointments.Appointment, error)
}

// ServiceLister supplies the price catalog.
type ServiceLister interface {
	List(ctx context.Context) ([]catalog.Service, error)
}

// Handler serves GET /revenue.
type Handler struct {
	appts     AppointmentSource
	services  ServiceLister
	weekStart time.Weekday
	loc       *time.Location
	now       func() time.Time
	logger    *logging.Logger
}

func NewHandler(appts AppointmentSource, svcs ServiceLister, weekStart time.Weekday, loc *time.Location, logger *logging.Logger) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		appts:     appts,
		services:  svcs,
		weekStart: weekStart,
		loc:       loc,
		now:       time.Now,
		logger:    logger,
	}
}

// Get handles GET /revenue?date=. The date ("2006-01-02") defaults to
// today; the response carries the totals for that day, its week and
// its month.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	day := schedule.DayStart(h.now().In(h.loc))
	if s := r.URL.Query().Get("date"); s != "" {
		parsed, err := time.ParseInLocation("2006-01-02", s, h.loc)
		if err != nil {
			http.Error(w, "invalid date, use YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		day = parsed
	}

	week := schedule.WeekOf(day, h.weekStart)
	monthStart, monthEnd := schedule.MonthBounds(day)

	// The month window contains the week window except when the week
	// straddles a month boundary, so fetch the union of both.
	from := monthStart
	if week[0].Before(from) {
		from = week[0]
	}
	to := monthEnd
	if weekEnd := schedule.DayEnd(week[len(week)-1]); weekEnd.After(to) {
		to = weekEnd
	}

	ctx := r.Context()
	appts, err := h.appts.ListRange(ctx, from, to)
	if err != nil {
		h.logger.Error("failed to load appointments for revenue", "error", err)
		http.Error(w, "failed to load revenue", http.StatusBadGateway)
		return
	}
	svcs, err := h.services.List(ctx)
	if err != nil {
		h.logger.Error("failed to load services for revenue", "error", err)
		http.Error(w, "failed to load revenue", http.StatusBadGateway)
		return
	}

	rollup := Rollup{
		Date:    day.Format("2006-01-02"),
		Daily:   InRange(day, schedule.DayEnd(day), appts, svcs),
		Weekly:  InRange(week[0], schedule.DayEnd(week[len(week)-1]), appts, svcs),
		Monthly: InRange(monthStart, monthEnd, appts, svcs),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rollup)
}
