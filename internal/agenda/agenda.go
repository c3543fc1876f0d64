// Package agenda builds the calendar views the clinic front desk works
// from: a day list for the dashboard and a seven-day week grid with
// slot availability.
package agenda

import (
	"sort"
	"time"

	"github.com/elmarkeb/clinicdesk/internal/appointments"
	"github.com/elmarkeb/clinicdesk/internal/catalog"
	"github.com/elmarkeb/clinicdesk/internal/patients"
	"github.com/elmarkeb/clinicdesk/internal/schedule"
)

// AppointmentView is an appointment joined with its patient and
// service for display. When a referenced record no longer exists the
// view falls back to the names stored on the appointment itself.
type AppointmentView struct {
	ID           string `json:"id"`
	PatientID    string `json:"patientId"`
	PatientName  string `json:"patientName"`
	PatientPhone string `json:"patientPhone,omitempty"`
	ServiceID    string `json:"serviceId"`
	ServiceName  string `json:"serviceName"`
	ServiceColor string `json:"serviceColor,omitempty"`
	Price        int64  `json:"price"`
	StartsAt     string `json:"startsAt"`
	Time         string `json:"time"` // clinic-local "HH:MM"
	Reason       string `json:"reason,omitempty"`
	Completed    bool   `json:"completed"`
}

// DayView is one column of the week grid.
type DayView struct {
	Date         string            `json:"date"` // "2006-01-02"
	Weekday      string            `json:"weekday"`
	Appointments []AppointmentView `json:"appointments"`
	BookedSlots  map[string]bool   `json:"bookedSlots"`
}

// WeekViewResponse is the full calendar grid for one week.
type WeekViewResponse struct {
	Start string    `json:"start"`
	End   string    `json:"end"`
	Slots []string  `json:"slots"`
	Days  []DayView `json:"days"`
}

const fallbackName = "deleted"

// ForDay returns the appointments falling on day's calendar date,
// ascending by start time. The sort is stable so same-time entries
// keep their stored order.
func ForDay(day time.Time, appts []Appointment) []Appointment {
	var out []Appointment
	for _, a := range appts {
		if schedule.SameDay(day, a.Start()) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start().Before(out[j].Start())
	})
	return out
}

// Appointment aliases the stored record so callers of this package
// read naturally.
type Appointment = appointments.Appointment

// WithDisplayData joins an appointment with its patient and service.
// Either lookup may be nil for a record that no longer exists.
func WithDisplayData(a Appointment, patient *patients.Patient, service *catalog.Service, loc *time.Location) AppointmentView {
	v := AppointmentView{
		ID:          a.ID,
		PatientID:   a.PatientID,
		PatientName: a.PatientName,
		ServiceID:   a.ServiceID,
		ServiceName: a.ServiceName,
		StartsAt:    a.StartsAt,
		Reason:      a.Reason,
		Completed:   a.Completed,
	}
	if start := a.Start(); !start.IsZero() {
		v.Time = start.In(loc).Format(schedule.SlotLayout)
	}
	if patient != nil {
		v.PatientName = patient.Name
		v.PatientPhone = patient.Phone
	}
	if service != nil {
		v.ServiceName = service.Name
		v.ServiceColor = service.Color
		v.Price = service.Price
	}
	if v.PatientName == "" {
		v.PatientName = fallbackName
	}
	if v.ServiceName == "" {
		v.ServiceName = fallbackName
	}
	return v
}

// Builder assembles agenda views from the three entity stores.
type Builder struct {
	patients map[string]*patients.Patient
	services map[string]*catalog.Service
	catalog  schedule.Catalog
	loc      *time.Location
}

// NewBuilder indexes the given patients and services for joining.
func NewBuilder(pts []patients.Patient, svcs []catalog.Service, slotCatalog schedule.Catalog, loc *time.Location) *Builder {
	if loc == nil {
		loc = time.UTC
	}
	b := &Builder{
		patients: make(map[string]*patients.Patient, len(pts)),
		services: make(map[string]*catalog.Service, len(svcs)),
		catalog:  slotCatalog,
		loc:      loc,
	}
	for i := range pts {
		b.patients[pts[i].ID] = &pts[i]
	}
	for i := range svcs {
		b.services[svcs[i].ID] = &svcs[i]
	}
	return b
}

// View joins a single appointment for display.
func (b *Builder) View(a Appointment) AppointmentView {
	return WithDisplayData(a, b.patients[a.PatientID], b.services[a.ServiceID], b.loc)
}

// Day builds the dashboard view for one calendar day.
func (b *Builder) Day(day time.Time, appts []Appointment) DayView {
	day = day.In(b.loc)
	ordered := ForDay(day, appts)
	views := make([]AppointmentView, 0, len(ordered))
	for _, a := range ordered {
		views = append(views, b.View(a))
	}
	return DayView{
		Date:         day.Format("2006-01-02"),
		Weekday:      day.Weekday().String(),
		Appointments: views,
		BookedSlots:  schedule.BookedSlots(day, appointments.StartTimes(ordered)),
	}
}

// WeekView builds the seven-day calendar grid containing ref.
func (b *Builder) WeekView(ref time.Time, start time.Weekday, appts []Appointment) WeekViewResponse {
	week := schedule.WeekOf(ref.In(b.loc), start)
	days := make([]DayView, 0, schedule.DaysPerWeek)
	for _, day := range week {
		days = append(days, b.Day(day, appts))
	}
	return WeekViewResponse{
		Start: week[0].Format("2006-01-02"),
		End:   week[len(week)-1].Format("2006-01-02"),
		Slots: b.catalog.Slots(),
		Days:  days,
	}
}
