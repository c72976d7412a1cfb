package models

import "time"

// Notification is one scheduled reminder, anchored to a reservation's
// check-in or check-out. Delivery is someone else's job; this record only
// tracks when it becomes due and what happened to it afterwards.
type Notification struct {
	ID             string            `json:"id"`
	Type           string            `json:"type"`
	Priority       string            `json:"priority"` // low, medium, high, urgent
	Title          string            `json:"title"`
	Message        string            `json:"message"`
	ReservationID  string            `json:"reservation_id,omitempty"`
	RecipientID    string            `json:"recipient_id"` // reservation id or "staff"
	ScheduledAt    time.Time         `json:"scheduled_at"`
	Status         string            `json:"status"`
	SnoozedUntil   *time.Time        `json:"snoozed_until,omitempty"`
	ResolutionNote string            `json:"resolution_note,omitempty"`
	IsActive       bool              `json:"is_active"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// IsTerminal reports whether the notification accepts no further action.
func (n *Notification) IsTerminal() bool {
	return n.Status == NotificationStatusArchived || n.Status == NotificationStatusCancelled
}

// IsHighPriority reports whether delivery should also use the secondary
// channel.
func (n *Notification) IsHighPriority() bool {
	return n.Priority == PriorityHigh || n.Priority == PriorityUrgent
}

// IsDueAt reports whether the notification should be handed to the sender:
// still pending (or snoozed with the snooze expired), active, and its
// scheduled instant has arrived.
func (n *Notification) IsDueAt(now time.Time) bool {
	if !n.IsActive || n.ScheduledAt.After(now) {
		return false
	}
	switch n.Status {
	case NotificationStatusPending:
		return true
	case NotificationStatusSnoozed:
		return n.SnoozedUntil != nil && !n.SnoozedUntil.After(now)
	default:
		return false
	}
}
