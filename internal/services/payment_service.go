package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/anudeep652/bus-booking-system-sub001/internal/domain"
	"github.com/anudeep652/bus-booking-system-sub001/internal/domain/models"
	"github.com/anudeep652/bus-booking-system-sub001/internal/utils"
)

// PaymentService flips payment state and keeps bookings in sync. It also
// runs the expiry sweep that cancels bookings whose payment stayed pending
// past the window, releasing their seats.
type PaymentService struct {
	Payments  PaymentStore
	Bookings  BookingStore
	Ledger    SeatLedger
	Cache     *redis.Client
	RequestID string
	Window    time.Duration
	Sweep     time.Duration
}

// Confirm marks a payment successful and the booking paid.
func (s PaymentService) Confirm(ctx context.Context, paymentID int64, method string) error {
	payment, err := s.Payments.GetByID(ctx, paymentID)
	if err != nil {
		return err
	}
	if payment.Status == models.PaymentStatusSuccessful {
		return domain.ConflictError{Resource: "payment", Msg: "already confirmed"}
	}

	if err := s.Payments.UpdateStatus(ctx, paymentID, models.PaymentStatusSuccessful, method); err != nil {
		return err
	}
	if err := s.Bookings.UpdateStatus(ctx, payment.BookingID, models.BookingConfirmed, models.PaymentPaid); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "payment", "confirmed",
		fmt.Sprintf("payment_id=%d booking_id=%d amount=%s", paymentID, payment.BookingID, utils.FormatRupiah(payment.Amount)))
	return nil
}

// Fail marks a payment failed; the booking keeps its seats until the expiry
// sweep or an explicit cancel.
func (s PaymentService) Fail(ctx context.Context, paymentID int64) error {
	payment, err := s.Payments.GetByID(ctx, paymentID)
	if err != nil {
		return err
	}
	if payment.Status != models.PaymentStatusPending {
		return domain.ConflictError{Resource: "payment", Msg: "payment is not pending"}
	}
	if err := s.Payments.UpdateStatus(ctx, paymentID, models.PaymentStatusFailed, ""); err != nil {
		return err
	}
	if err := s.Bookings.UpdateStatus(ctx, payment.BookingID, models.BookingConfirmed, models.PaymentFailed); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "payment", "failed",
		fmt.Sprintf("payment_id=%d booking_id=%d", paymentID, payment.BookingID))
	return nil
}

// RunExpirySweep cancels unpaid bookings on a ticker until ctx is done.
func (s PaymentService) RunExpirySweep(ctx context.Context) {
	interval := s.Sweep
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	utils.LogEvent(s.RequestID, "payment", "sweep_start",
		fmt.Sprintf("interval=%s window=%s", interval, s.Window))

	for {
		select {
		case <-ctx.Done():
			utils.LogEvent(s.RequestID, "payment", "sweep_stop", "context done")
			return
		case <-ticker.C:
			s.ExpireOnce(ctx)
		}
	}
}

// ExpireOnce cancels every booking whose payment stayed pending past the
// window and returns how many were expired.
func (s PaymentService) ExpireOnce(ctx context.Context) int {
	window := s.Window
	if window <= 0 {
		window = 30 * time.Minute
	}
	cutoff := time.Now().Add(-window)

	expired, err := s.Bookings.ListExpiredPending(ctx, cutoff, 100)
	if err != nil {
		utils.LogEvent(s.RequestID, "payment", "sweep_error", err.Error())
		return 0
	}

	count := 0
	for _, b := range expired {
		// release before cancelling: a failed release keeps the booking
		// confirmed+pending, so the next sweep picks it up again
		if err := s.Ledger.Release(ctx, b.TripID, b.SeatNumbers, b.Code); err != nil {
			utils.LogEvent(s.RequestID, "payment", "release_error",
				fmt.Sprintf("booking_id=%d err=%v", b.ID, err))
			continue
		}
		if err := s.Bookings.UpdateStatus(ctx, b.ID, models.BookingCancelled, models.PaymentFailed); err != nil {
			utils.LogEvent(s.RequestID, "payment", "expire_error",
				fmt.Sprintf("booking_id=%d err=%v", b.ID, err))
			continue
		}
		if p, err := s.Payments.GetByBookingID(ctx, b.ID); err == nil && p.Status == models.PaymentStatusPending {
			_ = s.Payments.UpdateStatus(ctx, p.ID, models.PaymentStatusFailed, "")
		}
		if s.Cache != nil {
			_ = s.Cache.Del(ctx, seatCacheKey(b.TripID)).Err()
		}
		utils.LogEvent(s.RequestID, "payment", "expired",
			fmt.Sprintf("booking_id=%d trip_id=%d seats=%s", b.ID, b.TripID, utils.JoinSeats(b.SeatNumbers)))
		count++
	}
	return count
}
