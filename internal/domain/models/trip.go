package models

import "time"

// Trip is a scheduled bus journey with a fixed seat inventory.
// Immutable once created; schedule changes are out of scope.
type Trip struct {
	ID           int64     `json:"id"`
	Source       string    `json:"source"`
	Destination  string    `json:"destination"`
	DepartsAt    time.Time `json:"departs_at"`
	ArrivesAt    time.Time `json:"arrives_at"`
	PricePerSeat int64     `json:"price_per_seat"`
	SeatCount    int       `json:"seat_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// ContainsSeat reports whether a seat number is within the trip's 1..N range.
func (t Trip) ContainsSeat(seat int) bool {
	return seat >= 1 && seat <= t.SeatCount
}
