package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	reservationOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "manuara",
			Name:      "reservation_operations_total",
			Help:      "Reservation writes by operation.",
		},
		[]string{"operation"},
	)

	bookingConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "manuara",
			Name:      "booking_conflicts_total",
			Help:      "Creates and updates rejected because the cabin was taken.",
		},
	)

	paymentsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "manuara",
			Name:      "payments_recorded_total",
			Help:      "Ledger entries recorded by payment method.",
		},
		[]string{"method"},
	)

	lifecycleTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "manuara",
			Name:      "lifecycle_transitions_total",
			Help:      "Guest lifecycle transitions by kind.",
		},
		[]string{"kind"},
	)

	notificationsGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "manuara",
			Name:      "notifications_generated_total",
			Help:      "Notifications written by the scheduler.",
		},
	)

	notificationsDelivered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "manuara",
			Name:      "notifications_delivered_total",
			Help:      "Notifications handed to a sender by channel.",
		},
		[]string{"channel"},
	)

	deliveryFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "manuara",
			Name:      "notification_delivery_failures_total",
			Help:      "Delivery attempts that returned an error.",
		},
	)

	sweepRuns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "manuara",
			Name:      "sweep_runs_total",
			Help:      "Completed sweeper passes.",
		},
	)

	sweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "manuara",
			Name:      "sweep_duration_seconds",
			Help:      "Wall time of a sweeper pass.",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			reservationOps,
			bookingConflicts,
			paymentsRecorded,
			lifecycleTransitions,
			notificationsGenerated,
			notificationsDelivered,
			deliveryFailures,
			sweepRuns,
			sweepDuration,
		)
	})
}

// IncReservationOp counts a reservation write: created, updated or deleted.
func IncReservationOp(operation string) {
	reservationOps.WithLabelValues(operation).Inc()
}

// IncConflict counts a rejected double booking.
func IncConflict() {
	bookingConflicts.Inc()
}

// IncPayment counts a recorded ledger entry.
func IncPayment(method string) {
	paymentsRecorded.WithLabelValues(method).Inc()
}

// IncTransition counts a lifecycle transition: check_in, check_out or no_show.
func IncTransition(kind string) {
	lifecycleTransitions.WithLabelValues(kind).Inc()
}

// AddNotificationsGenerated counts scheduler output.
func AddNotificationsGenerated(n int) {
	notificationsGenerated.Add(float64(n))
}

// IncDelivered counts a successful delivery on a channel.
func IncDelivered(channel string) {
	notificationsDelivered.WithLabelValues(channel).Inc()
}

// IncDeliveryFailure counts a failed delivery attempt.
func IncDeliveryFailure() {
	deliveryFailures.Inc()
}

// ObserveSweep records one completed sweeper pass.
func ObserveSweep(d time.Duration) {
	sweepRuns.Inc()
	sweepDuration.Observe(d.Seconds())
}
