// Package metrics registers and exposes the service's Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	bookings         *prometheus.CounterVec
	prioritySearches prometheus.Counter
	cancellations    prometheus.Counter
	resourceClicks   *prometheus.CounterVec
}

// Booking outcomes recorded on bookings_total.
const (
	OutcomeConfirmed = "confirmed"
	OutcomeConflict  = "conflict"
	OutcomeInvalid   = "invalid"
	OutcomeNoSlot    = "no_slot"
	OutcomeError     = "error"
)

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mindbloom_bookings_total",
			Help: "Booking attempts by outcome.",
		}, []string{"outcome"}),
		prioritySearches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mindbloom_priority_searches_total",
			Help: "Earliest-slot searches run for priority bookings.",
		}),
		cancellations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mindbloom_cancellations_total",
			Help: "Successful session cancellations.",
		}),
		resourceClicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mindbloom_resource_clicks_total",
			Help: "Resource directory clicks by resource id.",
		}, []string{"resource"}),
	}
	reg.MustRegister(m.bookings, m.prioritySearches, m.cancellations, m.resourceClicks)
	return m
}

func (m *Metrics) RecordBooking(outcome string) {
	m.bookings.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordPrioritySearch() {
	m.prioritySearches.Inc()
}

func (m *Metrics) RecordCancellation() {
	m.cancellations.Inc()
}

func (m *Metrics) RecordResourceClick(resourceID string) {
	m.resourceClicks.WithLabelValues(resourceID).Inc()
}

// Handler serves the scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
