package services

import (
	"context"
	"time"

	"github.com/anudeep652/bus-booking-system-sub001/internal/domain/models"
)

// SeatLedger is the authoritative per-trip record of seat occupancy.
// TryClaim must be atomic across the whole requested set. Release is scoped
// to the claiming booking code and idempotent, so callers may retry it after
// a failure without freeing seats another booking has since claimed.
type SeatLedger interface {
	TryClaim(ctx context.Context, tripID int64, seats []int, bookingCode string) (models.ClaimResult, error)
	Release(ctx context.Context, tripID int64, seats []int, bookingCode string) error
	StatusMap(ctx context.Context, tripID int64, seats []int) (map[int]models.SeatStatus, error)
	ListByTrip(ctx context.Context, tripID int64) ([]models.Seat, error)
}

type TripCatalog interface {
	GetByID(ctx context.Context, id int64) (models.Trip, error)
}

type BookingStore interface {
	Create(ctx context.Context, b models.Booking) (models.Booking, error)
	GetByID(ctx context.Context, id int64) (models.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, id int64, booking models.BookingStatus, payment models.PaymentState) error
	ListExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]models.Booking, error)
}

type PaymentStore interface {
	Create(ctx context.Context, p models.Payment) (models.Payment, error)
	GetByID(ctx context.Context, id int64) (models.Payment, error)
	GetByBookingID(ctx context.Context, bookingID int64) (models.Payment, error)
	UpdateStatus(ctx context.Context, id int64, status models.PaymentStatus, method string) error
}
