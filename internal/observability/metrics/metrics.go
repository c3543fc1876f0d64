package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking flow.
type BookingMetrics struct {
	bookingsTotal *prometheus.CounterVec
	storeLatency  *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicdesk",
			Subsystem: "booking",
			Name:      "requests_total",
			Help:      "Booking attempts by outcome",
		}, []string{"outcome"}),
		storeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clinicdesk",
			Subsystem: "store",
			Name:      "operation_seconds",
			Help:      "Latency of document store operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"collection", "operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.storeLatency)
	return m
}

// ObserveBooking records one booking attempt with its outcome
// (created, missing_field, past_datetime, slot_conflict, store_error).
func (m *BookingMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

// ObserveStoreLatency records one document store round trip.
func (m *BookingMetrics) ObserveStoreLatency(collection, operation string, seconds float64) {
	if m == nil {
		return
	}
	m.storeLatency.WithLabelValues(collection, operation).Observe(seconds)
}
