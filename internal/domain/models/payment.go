package models

import "time"

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusSuccessful PaymentStatus = "successful"
	PaymentStatusFailed     PaymentStatus = "failed"
)

// Payment tracks the money side of a booking. Its lifecycle is independent
// of the seat ledger; completion flips Booking.PaymentStatus.
type Payment struct {
	ID        int64         `json:"id"`
	BookingID int64         `json:"booking_id"`
	UserID    int64         `json:"user_id"`
	Amount    int64         `json:"amount"`
	Method    string        `json:"method"`
	Status    PaymentStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
