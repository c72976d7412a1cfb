package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.Local)
}

func TestReservation_Money(t *testing.T) {
	r := &Reservation{
		TotalPrice: 100000,
		Payments: []Payment{
			{Amount: 60000},
			{Amount: 15000},
		},
	}

	assert.Equal(t, int64(75000), r.TotalPaid())
	assert.Equal(t, int64(25000), r.RemainingBalance())

	t.Run("BalanceFlooredAtZero", func(t *testing.T) {
		over := &Reservation{TotalPrice: 50000, Payments: []Payment{{Amount: 70000}}}
		assert.Equal(t, int64(0), over.RemainingBalance())
	})

	t.Run("NoPayments", func(t *testing.T) {
		fresh := &Reservation{TotalPrice: 80000}
		assert.Equal(t, int64(0), fresh.TotalPaid())
		assert.Equal(t, int64(80000), fresh.RemainingBalance())
	})
}

func TestReservation_Guests(t *testing.T) {
	r := &Reservation{Adults: 2, Children: 1, Babies: 2}
	assert.Equal(t, 3, r.Guests(), "babies must not count toward capacity")
}

func TestReservation_Nights(t *testing.T) {
	r := &Reservation{CheckIn: day(2025, time.July, 1), CheckOut: day(2025, time.July, 4)}
	assert.Equal(t, 3, r.Nights())
}

func TestReservation_StatusAt(t *testing.T) {
	checkIn := day(2025, time.July, 1)
	checkOut := day(2025, time.July, 4)

	base := func() *Reservation {
		return &Reservation{
			CheckIn:        checkIn,
			CheckOut:       checkOut,
			CheckInStatus:  CheckInStatusPending,
			CheckOutStatus: CheckOutStatusPending,
		}
	}

	t.Run("PendingBeforeArrival", func(t *testing.T) {
		assert.Equal(t, ReservationStatusPendingCheckIn, base().StatusAt(day(2025, time.June, 20)))
	})

	t.Run("InStayWhileCheckedIn", func(t *testing.T) {
		r := base()
		r.CheckInStatus = CheckInStatusCheckedIn
		assert.Equal(t, ReservationStatusInStay, r.StatusAt(day(2025, time.July, 2)))
		// Check-out day itself still counts as in stay until checkout happens.
		assert.Equal(t, ReservationStatusInStay, r.StatusAt(day(2025, time.July, 4)))
	})

	t.Run("CheckedInButNotArrivedDay", func(t *testing.T) {
		r := base()
		r.CheckInStatus = CheckInStatusCheckedIn
		assert.Equal(t, ReservationStatusPendingCheckIn, r.StatusAt(day(2025, time.June, 30)))
	})

	t.Run("CheckedOutSameDay", func(t *testing.T) {
		r := base()
		r.CheckInStatus = CheckInStatusCheckedIn
		r.CheckOutStatus = CheckOutStatusCheckedOut
		assert.Equal(t, ReservationStatusCheckedOut, r.StatusAt(day(2025, time.July, 4)))
	})

	t.Run("DepartedAfterFullDay", func(t *testing.T) {
		r := base()
		r.CheckInStatus = CheckInStatusCheckedIn
		r.CheckOutStatus = CheckOutStatusCheckedOut
		assert.False(t, r.IsDeparted(day(2025, time.July, 4)))
		assert.True(t, r.IsDeparted(day(2025, time.July, 5)))
		assert.Equal(t, ReservationStatusDeparted, r.StatusAt(day(2025, time.July, 5)))
	})

	t.Run("LateCheckoutAlsoDeparts", func(t *testing.T) {
		r := base()
		r.CheckInStatus = CheckInStatusCheckedIn
		r.CheckOutStatus = CheckOutStatusLateCheckout
		assert.Equal(t, ReservationStatusCheckedOut, r.StatusAt(day(2025, time.July, 4)))
		assert.Equal(t, ReservationStatusDeparted, r.StatusAt(day(2025, time.July, 6)))
	})

	t.Run("NoShowStaysPending", func(t *testing.T) {
		r := base()
		r.CheckInStatus = CheckInStatusNoShow
		assert.Equal(t, ReservationStatusPendingCheckIn, r.StatusAt(day(2025, time.July, 2)))
	})

	t.Run("DerivationIsIdempotent", func(t *testing.T) {
		r := base()
		r.CheckInStatus = CheckInStatusCheckedIn
		now := day(2025, time.July, 2)
		assert.Equal(t, r.StatusAt(now), r.StatusAt(now))
	})
}

func TestReservation_PaymentStatusAt(t *testing.T) {
	now := day(2025, time.July, 1)
	base := func() *Reservation {
		return &Reservation{
			TotalPrice: 100000,
			CheckIn:    day(2025, time.July, 10),
			CheckOut:   day(2025, time.July, 14),
			CreatedAt:  now.Add(-24 * time.Hour),
		}
	}

	t.Run("FullyPaid", func(t *testing.T) {
		r := base()
		r.Payments = []Payment{{Amount: 100000}}
		assert.Equal(t, PaymentStatusFullyPaid, r.PaymentStatusAt(now))
	})

	t.Run("MajorityPaid", func(t *testing.T) {
		r := base()
		r.Payments = []Payment{{Amount: 60000}}
		assert.Equal(t, PaymentStatusPendingPayment, r.PaymentStatusAt(now))
	})

	t.Run("ExactlyHalfPaid", func(t *testing.T) {
		r := base()
		r.Payments = []Payment{{Amount: 50000}}
		assert.Equal(t, PaymentStatusPendingPayment, r.PaymentStatusAt(now))
	})

	t.Run("DepositMade", func(t *testing.T) {
		r := base()
		r.Payments = []Payment{{Amount: 20000}}
		assert.Equal(t, PaymentStatusDepositMade, r.PaymentStatusAt(now))
	})

	t.Run("OverdueAfterCheckout", func(t *testing.T) {
		r := base()
		r.CheckIn = day(2025, time.June, 10)
		r.CheckOut = day(2025, time.June, 14)
		assert.Equal(t, PaymentStatusOverdue, r.PaymentStatusAt(now))
	})

	t.Run("StaleUnpaidBecomesPendingPayment", func(t *testing.T) {
		r := base()
		r.CreatedAt = now.Add(-8 * 24 * time.Hour)
		assert.Equal(t, PaymentStatusPendingPayment, r.PaymentStatusAt(now))
	})

	t.Run("FreshUnpaidIsPendingDeposit", func(t *testing.T) {
		assert.Equal(t, PaymentStatusPendingDeposit, base().PaymentStatusAt(now))
	})

	t.Run("DerivationIsIdempotent", func(t *testing.T) {
		r := base()
		r.Payments = []Payment{{Amount: 30000}}
		assert.Equal(t, r.PaymentStatusAt(now), r.PaymentStatusAt(now))
	})
}

func TestReservation_ExpiredBy(t *testing.T) {
	r := &Reservation{
		CheckIn:  day(2025, time.July, 1),
		CheckOut: day(2025, time.July, 4),
	}

	assert.False(t, r.ExpiredBy(day(2025, time.July, 4)), "check-out day is not expired")
	assert.False(t, r.ExpiredBy(day(2025, time.July, 5)), "still inside the grace window")
	assert.True(t, r.ExpiredBy(day(2025, time.July, 6)))
	assert.True(t, r.ExpiredBy(day(2025, time.August, 1)))
}

func TestNotification_IsDueAt(t *testing.T) {
	now := day(2025, time.July, 1)
	past := now.Add(-2 * time.Hour)
	future := now.Add(2 * time.Hour)

	t.Run("PendingAndScheduled", func(t *testing.T) {
		n := &Notification{Status: NotificationStatusPending, IsActive: true, ScheduledAt: past}
		assert.True(t, n.IsDueAt(now))
	})

	t.Run("NotYetScheduled", func(t *testing.T) {
		n := &Notification{Status: NotificationStatusPending, IsActive: true, ScheduledAt: future}
		assert.False(t, n.IsDueAt(now))
	})

	t.Run("Inactive", func(t *testing.T) {
		n := &Notification{Status: NotificationStatusPending, IsActive: false, ScheduledAt: past}
		assert.False(t, n.IsDueAt(now))
	})

	t.Run("SnoozedInFuture", func(t *testing.T) {
		n := &Notification{Status: NotificationStatusSnoozed, IsActive: true, ScheduledAt: past, SnoozedUntil: &future}
		assert.False(t, n.IsDueAt(now))
	})

	t.Run("SnoozeExpired", func(t *testing.T) {
		n := &Notification{Status: NotificationStatusSnoozed, IsActive: true, ScheduledAt: past, SnoozedUntil: &past}
		assert.True(t, n.IsDueAt(now))
	})

	t.Run("SentIsNotDue", func(t *testing.T) {
		n := &Notification{Status: NotificationStatusSent, IsActive: true, ScheduledAt: past}
		assert.False(t, n.IsDueAt(now))
	})
}

func TestNotification_Flags(t *testing.T) {
	assert.True(t, (&Notification{Status: NotificationStatusArchived}).IsTerminal())
	assert.True(t, (&Notification{Status: NotificationStatusCancelled}).IsTerminal())
	assert.False(t, (&Notification{Status: NotificationStatusCompleted}).IsTerminal())
	assert.False(t, (&Notification{Status: NotificationStatusPending}).IsTerminal())

	assert.True(t, (&Notification{Priority: PriorityUrgent}).IsHighPriority())
	assert.True(t, (&Notification{Priority: PriorityHigh}).IsHighPriority())
	assert.False(t, (&Notification{Priority: PriorityMedium}).IsHighPriority())
	assert.False(t, (&Notification{Priority: PriorityLow}).IsHighPriority())
}
