package revenue

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elmarkeb/clinicdesk/internal/appointments"
	"github.com/elmarkeb/clinicdesk/internal/catalog"
)

type fakeSource struct{ appts []appointments.Appointment }

func (f *fakeSource) ListRange(_ context.Context, from, to time.Time) ([]appointments.Appointment, error) {
	var out []appointments.Appointment
	for _, a := range f.appts {
		at := a.Start()
		if !at.Before(from) && !at.After(to) {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeServices struct{ svcs []catalog.Service }

func (f *fakeServices) List(_ context.Context) ([]catalog.Service, error) {
	return f.svcs, nil
}

func TestRevenueRollup(t *testing.T) {
	appts := []appointments.Appointment{
		// Monday 2025-03-10.
		{ID: "a1", ServiceID: "s1", StartsAt: "2025-03-10T10:00:00Z"},
		{ID: "a2", ServiceID: "s2", StartsAt: "2025-03-10T11:00:00Z"},
		// Same week (Saturday start: 03-08..03-14), different day.
		{ID: "a3", ServiceID: "s1", StartsAt: "2025-03-12T10:00:00Z"},
		// Same month, previous week.
		{ID: "a4", ServiceID: "s2", StartsAt: "2025-03-03T10:00:00Z"},
		// Different month.
		{ID: "a5", ServiceID: "s1", StartsAt: "2025-04-01T10:00:00Z"},
	}
	h := NewHandler(&fakeSource{appts: appts}, &fakeServices{svcs: testServices},
		time.Saturday, time.UTC, nil)

	req := httptest.NewRequest(http.MethodGet, "/revenue?date=2025-03-10", nil)
	rr := httptest.NewRecorder()
	h.Get(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var got Rollup
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, "2025-03-10", got.Date)
	assert.Equal(t, int64(450), got.Daily)
	assert.Equal(t, int64(750), got.Weekly)
	assert.Equal(t, int64(900), got.Monthly)
}

func TestRevenueRejectsBadDate(t *testing.T) {
	h := NewHandler(&fakeSource{}, &fakeServices{}, time.Saturday, time.UTC, nil)

	req := httptest.NewRequest(http.MethodGet, "/revenue?date=March+10", nil)
	rr := httptest.NewRecorder()
	h.Get(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRevenueDefaultsToToday(t *testing.T) {
	h := NewHandler(&fakeSource{}, &fakeServices{svcs: testServices},
		time.Saturday, time.UTC, nil)
	h.now = func() time.Time {
		return time.Date(2025, time.March, 10, 15, 0, 0, 0, time.UTC)
	}

	req := httptest.NewRequest(http.MethodGet, "/revenue", nil)
	rr := httptest.NewRecorder()
	h.Get(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var got Rollup
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, "2025-03-10", got.Date)
	assert.Zero(t, got.Daily)
}
