package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/anudeep652/bus-booking-system-sub001/internal/domain"
	"github.com/anudeep652/bus-booking-system-sub001/internal/domain/models"
	"github.com/anudeep652/bus-booking-system-sub001/internal/utils"
)

// BookOutcome is the discriminated result of a booking attempt. Either the
// booking was created, or Taken lists the seats that were already booked.
// A conflict is a normal outcome, not an error.
type BookOutcome struct {
	Booking *models.Booking `json:"booking,omitempty"`
	Taken   []int           `json:"taken,omitempty"`
}

func (o BookOutcome) Conflicted() bool { return o.Booking == nil }

// ReservationService arbitrates concurrent booking attempts against the seat
// ledger. It serializes the check-then-set per trip, so among N concurrent
// claims on overlapping seats exactly one succeeds.
type ReservationService struct {
	Ledger   SeatLedger
	Trips    TripCatalog
	Bookings BookingStore
	Payments PaymentStore
	Cache    *redis.Client
	CacheTTL time.Duration

	locks *tripLocks
}

func NewReservationService(ledger SeatLedger, trips TripCatalog, bookings BookingStore, payments PaymentStore, cache *redis.Client, cacheTTL time.Duration) *ReservationService {
	return &ReservationService{
		Ledger:   ledger,
		Trips:    trips,
		Bookings: bookings,
		Payments: payments,
		Cache:    cache,
		CacheTTL: cacheTTL,
		locks:    newTripLocks(),
	}
}

func seatCacheKey(tripID int64) string {
	return fmt.Sprintf("seats:%d", tripID)
}

// validate runs every precondition before any exclusion token is taken:
// empty or duplicate seat list, unknown trip, out-of-range seat number.
func (s *ReservationService) validate(ctx context.Context, tripID int64, seats []int) (models.Trip, []int, error) {
	var trip models.Trip
	if len(seats) == 0 {
		return trip, nil, domain.ValidationError{Field: "seat_numbers", Msg: "empty seat list"}
	}

	sorted, dup := utils.SortSeats(seats)
	if dup {
		return trip, nil, domain.ValidationError{Field: "seat_numbers", Msg: "duplicate seat numbers"}
	}

	trip, err := s.Trips.GetByID(ctx, tripID)
	if err != nil {
		return trip, nil, err
	}

	for _, seat := range sorted {
		if !trip.ContainsSeat(seat) {
			return trip, nil, domain.ValidationError{
				Field: "seat_numbers",
				Msg:   fmt.Sprintf("seat %d out of range 1..%d", seat, trip.SeatCount),
			}
		}
	}
	return trip, sorted, nil
}

// Book attempts to claim the requested seats for the user. The trip lock is
// held only across the ledger check-then-set; payment record creation and
// cache invalidation happen after it is released.
func (s *ReservationService) Book(ctx context.Context, userID, tripID int64, seats []int) (BookOutcome, error) {
	var out BookOutcome

	trip, sorted, err := s.validate(ctx, tripID, seats)
	if err != nil {
		return out, err
	}

	release, err := s.locks.acquire(ctx, tripID)
	if err != nil {
		return out, domain.InternalError{Msg: "timed out waiting for trip lock", Err: err}
	}
	defer release()

	code := uuid.NewString()
	res, err := s.Ledger.TryClaim(ctx, tripID, sorted, code)
	if err != nil {
		return out, err
	}
	if !res.Claimed {
		utils.LogEvent(utils.RequestIDFrom(ctx), "booking", "conflict",
			fmt.Sprintf("trip_id=%d taken=%s", tripID, utils.JoinSeats(res.Taken)))
		return BookOutcome{Taken: res.Taken}, nil
	}

	booking := models.Booking{
		Code:          code,
		TripID:        tripID,
		UserID:        userID,
		SeatNumbers:   sorted,
		TotalAmount:   trip.PricePerSeat * int64(len(sorted)),
		BookingStatus: models.BookingConfirmed,
		PaymentStatus: models.PaymentPending,
	}
	created, err := s.Bookings.Create(ctx, booking)
	if err != nil {
		// compensate so the ledger never keeps seats for a booking that
		// was not persisted
		if relErr := s.Ledger.Release(ctx, tripID, sorted, code); relErr != nil {
			utils.LogEvent(utils.RequestIDFrom(ctx), "booking", "release_failed",
				fmt.Sprintf("trip_id=%d seats=%s err=%v", tripID, utils.JoinSeats(sorted), relErr))
		}
		return out, domain.InternalError{Msg: "failed to persist booking", Err: err}
	}

	release()
	s.afterBooked(ctx, created)
	return BookOutcome{Booking: &created}, nil
}

// afterBooked runs outside the critical section: open the pending payment,
// drop the cached seat map, log. None of these may fail the booking.
func (s *ReservationService) afterBooked(ctx context.Context, b models.Booking) {
	if s.Payments != nil {
		_, err := s.Payments.Create(ctx, models.Payment{
			BookingID: b.ID,
			UserID:    b.UserID,
			Amount:    b.TotalAmount,
			Status:    models.PaymentStatusPending,
		})
		if err != nil {
			utils.LogEvent(utils.RequestIDFrom(ctx), "booking", "payment_notify_failed",
				fmt.Sprintf("booking_id=%d err=%v", b.ID, err))
		}
	}
	s.invalidateSeatCache(ctx, b.TripID)
	utils.LogEvent(utils.RequestIDFrom(ctx), "booking", "booked",
		fmt.Sprintf("booking_id=%d trip_id=%d seats=%s amount=%s",
			b.ID, b.TripID, utils.JoinSeats(b.SeatNumbers), utils.FormatRupiah(b.TotalAmount)))
}

func (s *ReservationService) invalidateSeatCache(ctx context.Context, tripID int64) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, seatCacheKey(tripID)).Err(); err != nil {
		utils.LogEvent(utils.RequestIDFrom(ctx), "booking", "cache_invalidate_failed",
			fmt.Sprintf("trip_id=%d err=%v", tripID, err))
	}
}

// Cancel releases a booking's seats back to available. Only the owner may
// cancel; a cancelled seat is immediately claimable again.
func (s *ReservationService) Cancel(ctx context.Context, userID, bookingID int64) error {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.UserID != userID {
		return domain.NotFoundError{Resource: "booking"}
	}
	if booking.BookingStatus == models.BookingCancelled {
		return domain.ConflictError{Resource: "booking", Msg: "already cancelled"}
	}

	// release before the status flip: a failed release leaves the booking
	// active so the caller can retry, and the code-scoped release is a no-op
	// once the seats are free
	if err := s.Ledger.Release(ctx, booking.TripID, booking.SeatNumbers, booking.Code); err != nil {
		return err
	}

	payment := models.PaymentFailed
	if booking.PaymentStatus == models.PaymentPaid {
		payment = models.PaymentRefunded
	}
	if err := s.Bookings.UpdateStatus(ctx, bookingID, models.BookingCancelled, payment); err != nil {
		return err
	}

	s.invalidateSeatCache(ctx, booking.TripID)
	utils.LogEvent(utils.RequestIDFrom(ctx), "booking", "cancelled",
		fmt.Sprintf("booking_id=%d trip_id=%d seats=%s", bookingID, booking.TripID, utils.JoinSeats(booking.SeatNumbers)))
	return nil
}

// Status returns the current status for the requested seats (or all seats
// when none given). Snapshot read, no locking.
func (s *ReservationService) Status(ctx context.Context, tripID int64, seats []int) (map[int]models.SeatStatus, error) {
	trip, err := s.Trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	for _, seat := range seats {
		if !trip.ContainsSeat(seat) {
			return nil, domain.ValidationError{
				Field: "seat_numbers",
				Msg:   fmt.Sprintf("seat %d out of range 1..%d", seat, trip.SeatCount),
			}
		}
	}
	return s.Ledger.StatusMap(ctx, tripID, seats)
}

// SeatMap returns the full seat map for a trip, served from the Redis cache
// when warm. Cache reads are best effort.
func (s *ReservationService) SeatMap(ctx context.Context, tripID int64) ([]models.Seat, error) {
	if _, err := s.Trips.GetByID(ctx, tripID); err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if raw, err := s.Cache.Get(ctx, seatCacheKey(tripID)).Result(); err == nil {
			var cached []models.Seat
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached, nil
			}
		}
	}

	seatList, err := s.Ledger.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil && len(seatList) > 0 {
		if raw, err := json.Marshal(seatList); err == nil {
			ttl := s.CacheTTL
			if ttl <= 0 {
				ttl = 10 * time.Second
			}
			_ = s.Cache.Set(ctx, seatCacheKey(tripID), raw, ttl).Err()
		}
	}
	return seatList, nil
}
