package models

import (
	"time"

	"github.com/fiignacio/manuara-reservas-app-sub000/internal/datemath"
)

// Reservation is one booked stay. CheckIn/CheckOut are calendar dates
// normalized to local noon; occupancy is the half-open range
// [CheckIn, CheckOut), so a new stay may start the day another ends.
// RemainingBalance, payment status and the overall reservation status are
// derived on demand, never stored.
type Reservation struct {
	ID             string     `json:"id"`
	CabinID        string     `json:"cabin_id"`
	GuestName      string     `json:"guest_name"`
	ContactEmail   string     `json:"contact_email,omitempty"`
	ContactPhone   string     `json:"contact_phone,omitempty"`
	CheckIn        time.Time  `json:"check_in"`
	CheckOut       time.Time  `json:"check_out"`
	Adults         int        `json:"adults"`
	Children       int        `json:"children"`
	Babies         int        `json:"babies"`
	Season         string     `json:"season"` // high, low
	TotalPrice     int64      `json:"total_price"`
	UseCustomPrice bool       `json:"use_custom_price"`
	CustomPrice    int64      `json:"custom_price,omitempty"`
	Payments       []Payment  `json:"payments"`
	CheckInStatus  string     `json:"check_in_status"`  // pending, checked_in, no_show
	CheckOutStatus string     `json:"check_out_status"` // pending, checked_out, late_checkout
	ActualCheckIn  *time.Time `json:"actual_check_in,omitempty"`
	ActualCheckOut *time.Time `json:"actual_check_out,omitempty"`
	CheckInNote    string     `json:"check_in_note,omitempty"`
	CheckOutNote   string     `json:"check_out_note,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Nights returns the stay length in nights.
func (r *Reservation) Nights() int {
	return datemath.NightsBetween(r.CheckIn, r.CheckOut)
}

// Guests returns the capacity-relevant head count. Babies are excluded:
// they count toward neither capacity nor price.
func (r *Reservation) Guests() int {
	return r.Adults + r.Children
}

// TotalPaid sums the ledger.
func (r *Reservation) TotalPaid() int64 {
	var sum int64
	for _, p := range r.Payments {
		sum += p.Amount
	}
	return sum
}

// RemainingBalance is the total price minus accepted payments, floored at
// zero.
func (r *Reservation) RemainingBalance() int64 {
	balance := r.TotalPrice - r.TotalPaid()
	if balance < 0 {
		return 0
	}
	return balance
}

// HasCheckedOut reports whether the guest left, on time or late.
func (r *Reservation) HasCheckedOut() bool {
	return r.CheckOutStatus == CheckOutStatusCheckedOut || r.CheckOutStatus == CheckOutStatusLateCheckout
}

// IsDeparted reports whether the guest checked out and at least one full
// day has passed since the scheduled check-out date, meaning the stay is
// fully concluded.
func (r *Reservation) IsDeparted(now time.Time) bool {
	return r.HasCheckedOut() && datemath.DaysSince(r.CheckOut, now) >= 1
}

// StatusAt derives the overall reservation status from the lifecycle
// sub-states and now's calendar day. A recorded check-out always wins over
// in_stay; a stay turns from checked_out into departed once a full day has
// passed after the scheduled check-out date.
func (r *Reservation) StatusAt(now time.Time) string {
	today := datemath.Today(now)
	switch {
	case r.IsDeparted(now):
		return ReservationStatusDeparted
	case r.HasCheckedOut():
		return ReservationStatusCheckedOut
	case r.CheckInStatus == CheckInStatusCheckedIn &&
		!datemath.BeforeDay(today, r.CheckIn) && !datemath.AfterDay(today, r.CheckOut):
		return ReservationStatusInStay
	default:
		return ReservationStatusPendingCheckIn
	}
}

// PaymentStatusAt derives the payment status label. Rules are evaluated in
// order, first match wins; the half-paid threshold uses integer math so
// exactly 50% counts as pending_payment.
func (r *Reservation) PaymentStatusAt(now time.Time) string {
	paid := r.TotalPaid()
	switch {
	case r.RemainingBalance() == 0:
		return PaymentStatusFullyPaid
	case paid > 0 && paid*2 >= r.TotalPrice:
		return PaymentStatusPendingPayment
	case paid > 0:
		return PaymentStatusDepositMade
	case datemath.AfterDay(datemath.Today(now), r.CheckOut):
		return PaymentStatusOverdue
	case now.Sub(r.CreatedAt) > 7*24*time.Hour:
		return PaymentStatusPendingPayment
	default:
		return PaymentStatusPendingDeposit
	}
}

// ExpiredBy reports whether the reservation is past the deletion grace
// window: more than ExpiryGraceDays full days since check-out. The cleanup
// sweep uses this; it is destructive and distinct from the soft departed
// status.
func (r *Reservation) ExpiredBy(now time.Time) bool {
	return datemath.DaysSince(r.CheckOut, now) > ExpiryGraceDays
}
