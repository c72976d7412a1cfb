package models

const (
	SeasonHigh = "high"
	SeasonLow  = "low"
)

const (
	CheckInStatusPending   = "pending"
	CheckInStatusCheckedIn = "checked_in"
	CheckInStatusNoShow    = "no_show"
)

const (
	CheckOutStatusPending      = "pending"
	CheckOutStatusCheckedOut   = "checked_out"
	CheckOutStatusLateCheckout = "late_checkout"
)

// Derived overall reservation status, never stored.
const (
	ReservationStatusPendingCheckIn = "pending_checkin"
	ReservationStatusInStay         = "in_stay"
	ReservationStatusCheckedOut     = "checked_out"
	ReservationStatusDeparted       = "departed"
)

// Derived payment status, never stored.
const (
	PaymentStatusFullyPaid      = "fully_paid"
	PaymentStatusPendingPayment = "pending_payment"
	PaymentStatusDepositMade    = "deposit_made"
	PaymentStatusOverdue        = "overdue"
	PaymentStatusPendingDeposit = "pending_deposit"
)

const (
	PaymentMethodCash       = "cash"
	PaymentMethodTransfer   = "transfer"
	PaymentMethodCreditCard = "credit_card"
	PaymentMethodDebitCard  = "debit_card"
	PaymentMethodOther      = "other"
)

const (
	NotificationCheckInReminder  = "checkin_reminder"
	NotificationCheckOutReminder = "checkout_reminder"
	NotificationWelcomeMessage   = "welcome_message"
	NotificationFlightDelay      = "flight_delay"
	NotificationMaintenanceAlert = "maintenance_alert"
	NotificationPaymentReminder  = "payment_reminder"
	NotificationCleaningSchedule = "cleaning_schedule"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

const (
	NotificationStatusPending   = "pending"
	NotificationStatusSent      = "sent"
	NotificationStatusRead      = "read"
	NotificationStatusCompleted = "completed"
	NotificationStatusArchived  = "archived"
	NotificationStatusCancelled = "cancelled"
	NotificationStatusSnoozed   = "snoozed"
)

// RecipientStaff marks notifications addressed to the staff inbox rather
// than to a reservation's guest.
const RecipientStaff = "staff"

const (
	// DefaultMaxStayNights caps a single stay's length.
	DefaultMaxStayNights = 30

	// DefaultBookingHorizonDays caps how far ahead a check-in may be booked.
	DefaultBookingHorizonDays = 730

	// DefaultSnoozeHours is the snooze applied when no duration is given.
	DefaultSnoozeHours = 24

	// MaxSnoozeHours caps any single snooze at one week.
	MaxSnoozeHours = 168

	// ExpiryGraceDays is how many full days past check-out a reservation
	// survives before the cleanup sweep deletes it.
	ExpiryGraceDays = 1

	// DashboardCacheTTL is the snapshot cache lifetime in seconds.
	DashboardCacheTTL = 5 * 60
)
