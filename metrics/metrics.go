package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Booking holds the counters recorded by the appointment flow.
type Booking struct {
	Created  prometheus.Counter
	Rejected *prometheus.CounterVec
	Status   *prometheus.CounterVec
}

// NewBooking registers the booking counters on reg.
func NewBooking(reg prometheus.Registerer) *Booking {
	m := &Booking{
		Created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "medcare",
			Name:      "appointments_created_total",
			Help:      "Appointments successfully booked.",
		}),
		Rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medcare",
			Name:      "appointments_rejected_total",
			Help:      "Booking attempts rejected, by reason.",
		}, []string{"reason"}),
		Status: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medcare",
			Name:      "appointment_status_changes_total",
			Help:      "Appointment status transitions, by target status.",
		}, []string{"status"}),
	}
	if reg != nil {
		reg.MustRegister(m.Created, m.Rejected, m.Status)
	}
	return m
}
