package models

import "time"

// DashboardSnapshot is the aggregate the staff dashboard renders. It is
// recomputed from the store on demand and cached with a short TTL; every
// mutating operation invalidates the cache.
type DashboardSnapshot struct {
	GeneratedAt          time.Time       `json:"generated_at"`
	TotalReservations    int             `json:"total_reservations"`
	StatusCounts         map[string]int  `json:"status_counts"`
	ArrivalsToday        int             `json:"arrivals_today"`
	DeparturesToday      int             `json:"departures_today"`
	OutstandingBalance   int64           `json:"outstanding_balance"`
	Occupancy            map[string]bool `json:"occupancy"` // cabin id -> occupied today
	PendingNotifications int             `json:"pending_notifications"`
}
