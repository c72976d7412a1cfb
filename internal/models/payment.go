package models

import "time"

// Payment is one entry in a reservation's ledger. Amounts are whole CLP.
type Payment struct {
	ID         string    `json:"id"`
	Amount     int64     `json:"amount"`
	Date       time.Time `json:"date"`
	Method     string    `json:"method"` // cash, transfer, credit_card, debit_card, other
	Note       string    `json:"note,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}
