package models

import "time"

type BookingStatus string

const (
	BookingConfirmed          BookingStatus = "confirmed"
	BookingCancelled          BookingStatus = "cancelled"
	BookingPartiallyCancelled BookingStatus = "partially_cancelled"
)

type PaymentState string

const (
	PaymentPending           PaymentState = "pending"
	PaymentPaid              PaymentState = "paid"
	PaymentFailed            PaymentState = "failed"
	PaymentRefunded          PaymentState = "refunded"
	PaymentPartiallyRefunded PaymentState = "partially_refunded"
)

// Booking records seats claimed by a user for a trip. It is created only
// after the coordinator confirmed the whole seat set was claimed atomically;
// the ledger stays the source of truth for occupancy.
type Booking struct {
	ID            int64         `json:"id"`
	Code          string        `json:"code"`
	TripID        int64         `json:"trip_id"`
	UserID        int64         `json:"user_id"`
	SeatNumbers   []int         `json:"seat_numbers"`
	TotalAmount   int64         `json:"total_amount"`
	BookingStatus BookingStatus `json:"booking_status"`
	PaymentStatus PaymentState  `json:"payment_status"`
	CreatedAt     time.Time     `json:"created_at"`
}
