package models

type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatBooked    SeatStatus = "booked"
	SeatCancelled SeatStatus = "cancelled"
)

// Seat is one row of the per-trip ledger. Seat numbers are unique within a
// trip and run 1..Trip.SeatCount.
type Seat struct {
	TripID      int64      `json:"trip_id"`
	SeatNumber  int        `json:"seat_number"`
	Status      SeatStatus `json:"status"`
	BookingCode *string    `json:"booking_code,omitempty"`
}

func (s Seat) IsAvailable() bool {
	return s.Status == SeatAvailable
}

// ClaimResult is the discriminated outcome of a ledger claim: either every
// requested seat was marked booked, or nothing changed and Taken lists the
// seats that were not available at decision time.
type ClaimResult struct {
	Claimed bool  `json:"claimed"`
	Seats   []int `json:"seats,omitempty"`
	Taken   []int `json:"taken,omitempty"`
}
