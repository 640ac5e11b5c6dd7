package services

import (
	"context"
	"testing"
	"time"

	"github.com/anudeep652/bus-booking-system-sub001/internal/domain"
	"github.com/anudeep652/bus-booking-system-sub001/internal/domain/models"
)

func TestPaymentConfirmFlipsBooking(t *testing.T) {
	ledger := newMemLedger()
	ledger.seed(1, 5)
	bookings := newMemBookings()
	payments := newMemPayments()
	reservations := newTestService(ledger, map[int64]models.Trip{1: testTrip(1, 5)}, bookings, payments)

	out, err := reservations.Book(context.Background(), 7, 1, []int{1})
	if err != nil || out.Conflicted() {
		t.Fatalf("booking failed: %v", err)
	}
	payment, err := payments.GetByBookingID(context.Background(), out.Booking.ID)
	if err != nil {
		t.Fatalf("pending payment missing: %v", err)
	}

	svc := PaymentService{Payments: payments, Bookings: bookings, Ledger: ledger}
	if err := svc.Confirm(context.Background(), payment.ID, "transfer"); err != nil {
		t.Fatalf("confirm error: %v", err)
	}

	booking, _ := bookings.GetByID(context.Background(), out.Booking.ID)
	if booking.PaymentStatus != models.PaymentPaid {
		t.Fatalf("booking payment_status should be paid, got %s", booking.PaymentStatus)
	}
	updated, _ := payments.GetByID(context.Background(), payment.ID)
	if updated.Status != models.PaymentStatusSuccessful || updated.Method != "transfer" {
		t.Fatalf("payment not updated: %+v", updated)
	}

	if err := svc.Confirm(context.Background(), payment.ID, "transfer"); !domain.IsConflict(err) {
		t.Fatalf("second confirm should conflict, got %v", err)
	}
}

func TestExpireOnceCancelsUnpaidAndReleasesSeats(t *testing.T) {
	ledger := newMemLedger()
	ledger.seed(1, 5)
	bookings := newMemBookings()
	payments := newMemPayments()
	reservations := newTestService(ledger, map[int64]models.Trip{1: testTrip(1, 5)}, bookings, payments)

	out, err := reservations.Book(context.Background(), 7, 1, []int{1, 2})
	if err != nil || out.Conflicted() {
		t.Fatalf("booking failed: %v", err)
	}

	// age the booking past the payment window
	bookings.mu.Lock()
	aged := bookings.items[out.Booking.ID]
	aged.CreatedAt = time.Now().Add(-2 * time.Hour)
	bookings.items[out.Booking.ID] = aged
	bookings.mu.Unlock()

	svc := PaymentService{
		Payments: payments,
		Bookings: bookings,
		Ledger:   ledger,
		Window:   30 * time.Minute,
	}
	if n := svc.ExpireOnce(context.Background()); n != 1 {
		t.Fatalf("expected 1 expired booking, got %d", n)
	}

	booking, _ := bookings.GetByID(context.Background(), out.Booking.ID)
	if booking.BookingStatus != models.BookingCancelled {
		t.Fatalf("expired booking should be cancelled, got %s", booking.BookingStatus)
	}

	statuses, _ := ledger.StatusMap(context.Background(), 1, []int{1, 2})
	for seat, st := range statuses {
		if st != models.SeatAvailable {
			t.Fatalf("seat %d should be released after expiry, got %s", seat, st)
		}
	}

	payment, _ := payments.GetByBookingID(context.Background(), out.Booking.ID)
	if payment.Status != models.PaymentStatusFailed {
		t.Fatalf("pending payment should be failed after expiry, got %s", payment.Status)
	}

	// seats are claimable again
	rebook, err := reservations.Book(context.Background(), 9, 1, []int{1, 2})
	if err != nil || rebook.Conflicted() {
		t.Fatalf("rebooking expired seats failed: out=%+v err=%v", rebook, err)
	}
}

func TestExpireOnceRetriesAfterReleaseFailure(t *testing.T) {
	ledger := newMemLedger()
	ledger.seed(1, 5)
	bookings := newMemBookings()
	payments := newMemPayments()
	reservations := newTestService(ledger, map[int64]models.Trip{1: testTrip(1, 5)}, bookings, payments)

	out, err := reservations.Book(context.Background(), 7, 1, []int{1, 2})
	if err != nil || out.Conflicted() {
		t.Fatalf("booking failed: %v", err)
	}

	bookings.mu.Lock()
	aged := bookings.items[out.Booking.ID]
	aged.CreatedAt = time.Now().Add(-2 * time.Hour)
	bookings.items[out.Booking.ID] = aged
	bookings.mu.Unlock()

	svc := PaymentService{Payments: payments, Bookings: bookings, Ledger: ledger, Window: 30 * time.Minute}

	ledger.failReleases = 1
	if n := svc.ExpireOnce(context.Background()); n != 0 {
		t.Fatalf("failed release must not count as expired, got %d", n)
	}

	// the booking must stay confirmed+pending so the next sweep lists it
	booking, _ := bookings.GetByID(context.Background(), out.Booking.ID)
	if booking.BookingStatus != models.BookingConfirmed || booking.PaymentStatus != models.PaymentPending {
		t.Fatalf("booking left in %s/%s, sweep would never retry it",
			booking.BookingStatus, booking.PaymentStatus)
	}

	if n := svc.ExpireOnce(context.Background()); n != 1 {
		t.Fatalf("next sweep should expire the booking, got %d", n)
	}
	statuses, _ := ledger.StatusMap(context.Background(), 1, []int{1, 2})
	for seat, st := range statuses {
		if st != models.SeatAvailable {
			t.Fatalf("seat %d still %s after retried sweep", seat, st)
		}
	}
}

func TestExpireOnceSkipsPaidBookings(t *testing.T) {
	ledger := newMemLedger()
	ledger.seed(1, 5)
	bookings := newMemBookings()
	payments := newMemPayments()
	reservations := newTestService(ledger, map[int64]models.Trip{1: testTrip(1, 5)}, bookings, payments)

	out, err := reservations.Book(context.Background(), 7, 1, []int{1})
	if err != nil || out.Conflicted() {
		t.Fatalf("booking failed: %v", err)
	}
	payment, _ := payments.GetByBookingID(context.Background(), out.Booking.ID)

	svc := PaymentService{Payments: payments, Bookings: bookings, Ledger: ledger, Window: 30 * time.Minute}
	if err := svc.Confirm(context.Background(), payment.ID, "cash"); err != nil {
		t.Fatalf("confirm error: %v", err)
	}

	bookings.mu.Lock()
	aged := bookings.items[out.Booking.ID]
	aged.CreatedAt = time.Now().Add(-2 * time.Hour)
	bookings.items[out.Booking.ID] = aged
	bookings.mu.Unlock()

	if n := svc.ExpireOnce(context.Background()); n != 0 {
		t.Fatalf("paid booking must not expire, expired %d", n)
	}
}
