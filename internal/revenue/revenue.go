// Package revenue aggregates appointment income for the financials
// page: totals for a day, its calendar week and its calendar month.
package revenue

import (
	"time"

	"github.com/elmarkeb/clinicdesk/internal/appointments"
	"github.com/elmarkeb/clinicdesk/internal/catalog"
)

// InRange sums the prices of the services behind every appointment
// whose start lies in [start, end], both bounds inclusive. An
// appointment whose service no longer exists contributes zero.
func InRange(start, end time.Time, appts []appointments.Appointment, services []catalog.Service) int64 {
	prices := make(map[string]int64, len(services))
	for _, s := range services {
		prices[s.ID] = s.Price
	}

	var total int64
	for i := range appts {
		at := appts[i].Start()
		if at.IsZero() || at.Before(start) || at.After(end) {
			continue
		}
		total += prices[appts[i].ServiceID]
	}
	return total
}

// Rollup is the daily / weekly / monthly revenue around one date.
type Rollup struct {
	Date    string `json:"date"` // "2006-01-02"
	Daily   int64  `json:"daily"`
	Weekly  int64  `json:"weekly"`
	Monthly int64  `json:"monthly"`
}
