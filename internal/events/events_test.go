package events

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	var received *Event
	var callCount int

	bus.Subscribe(EventReservationCreated, func(event *Event) error {
		received = event
		callCount++
		return nil
	})

	payload := ReservationEventPayload{
		ReservationID: "res-1",
		CabinID:       "cabana-grande",
		GuestName:     "Ana Tepano",
		CheckIn:       time.Date(2025, time.July, 1, 12, 0, 0, 0, time.Local),
		CheckOut:      time.Date(2025, time.July, 4, 12, 0, 0, 0, time.Local),
		Status:        "pending_checkin",
		TotalPrice:    180000,
		Balance:       180000,
	}
	if err := bus.PublishJSON(EventReservationCreated, payload); err != nil {
		t.Fatalf("PublishJSON failed: %v", err)
	}

	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
	if received.Type != EventReservationCreated {
		t.Errorf("expected type %s, got %s", EventReservationCreated, received.Type)
	}
	if received.CreatedAt.IsZero() {
		t.Errorf("expected CreatedAt to be set")
	}

	var decoded ReservationEventPayload
	if err := json.Unmarshal(received.Payload, &decoded); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}
	if decoded.ReservationID != "res-1" {
		t.Errorf("expected res-1, got %s", decoded.ReservationID)
	}
	if decoded.Balance != 180000 {
		t.Errorf("expected balance 180000, got %d", decoded.Balance)
	}
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	bus := NewEventBus()
	var count1, count2 int

	bus.Subscribe(EventPaymentRecorded, func(_ *Event) error { count1++; return nil })
	bus.Subscribe(EventPaymentRecorded, func(_ *Event) error { count2++; return nil })

	bus.Publish(&Event{Type: EventPaymentRecorded})

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both handlers to be called once, got %d and %d", count1, count2)
	}
}

func TestEventBusIgnoresOtherTypes(t *testing.T) {
	bus := NewEventBus()
	var calls int

	bus.Subscribe(EventGuestCheckedIn, func(_ *Event) error { calls++; return nil })
	bus.Publish(&Event{Type: EventGuestCheckedOut})

	if calls != 0 {
		t.Errorf("expected no calls for a foreign type, got %d", calls)
	}
}

func TestEventBusNoSubscribers(t *testing.T) {
	bus := NewEventBus()
	// Should not panic.
	bus.Publish(&Event{Type: "unknown"})
	if err := bus.PublishJSON("unknown", nil); err != nil {
		t.Errorf("PublishJSON failed: %v", err)
	}
}

func TestNilBusIsSafe(t *testing.T) {
	var bus *EventBus
	if err := bus.PublishJSON(EventReservationDeleted, nil); err != nil {
		t.Errorf("nil bus should swallow publishes, got %v", err)
	}
}
