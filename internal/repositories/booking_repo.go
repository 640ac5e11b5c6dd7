package repositories

import (
	"context"
	"database/sql"
	"time"

	intconfig "github.com/anudeep652/bus-booking-system-sub001/internal/config"
	"github.com/anudeep652/bus-booking-system-sub001/internal/domain"
	"github.com/anudeep652/bus-booking-system-sub001/internal/domain/models"
)

type BookingRepo struct {
	DB *sql.DB
}

func (r BookingRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Create persists the booking header and its seat rows in one transaction.
func (r BookingRepo) Create(ctx context.Context, b models.Booking) (models.Booking, error) {
	tx, err := r.db().BeginTx(ctx, nil)
	if err != nil {
		return b, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (code, trip_id, user_id, total_amount, booking_status, payment_status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		b.Code, b.TripID, b.UserID, b.TotalAmount, string(b.BookingStatus), string(b.PaymentStatus))
	if err != nil {
		return b, domain.InternalError{Msg: "insert booking failed", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return b, domain.InternalError{Err: err}
	}
	b.ID = id

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO booking_seats (booking_id, seat_number) VALUES (?, ?)`)
	if err != nil {
		return b, domain.InternalError{Err: err}
	}
	defer stmt.Close()

	for _, seat := range b.SeatNumbers {
		if _, err := stmt.ExecContext(ctx, id, seat); err != nil {
			return b, domain.InternalError{Msg: "insert booking seat failed", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return b, domain.InternalError{Err: err}
	}
	return b, nil
}

func (r BookingRepo) GetByID(ctx context.Context, id int64) (models.Booking, error) {
	var b models.Booking
	err := r.db().QueryRowContext(ctx,
		`SELECT id, code, trip_id, user_id, total_amount, booking_status, payment_status, created_at
		 FROM bookings WHERE id=?`, id).
		Scan(&b.ID, &b.Code, &b.TripID, &b.UserID, &b.TotalAmount, &b.BookingStatus, &b.PaymentStatus, &b.CreatedAt)
	if err == sql.ErrNoRows {
		return b, domain.NotFoundError{Resource: "booking", Err: err}
	}
	if err != nil {
		return b, domain.InternalError{Err: err}
	}

	seats, err := r.seatNumbers(ctx, id)
	if err != nil {
		return b, err
	}
	b.SeatNumbers = seats
	return b, nil
}

func (r BookingRepo) seatNumbers(ctx context.Context, bookingID int64) ([]int, error) {
	rows, err := r.db().QueryContext(ctx,
		`SELECT seat_number FROM booking_seats WHERE booking_id=? ORDER BY seat_number`, bookingID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []int{}
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r BookingRepo) ListByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	rows, err := r.db().QueryContext(ctx,
		`SELECT id, code, trip_id, user_id, total_amount, booking_status, payment_status, created_at
		 FROM bookings WHERE user_id=? ORDER BY created_at DESC LIMIT 100`, userID)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.Code, &b.TripID, &b.UserID, &b.TotalAmount, &b.BookingStatus, &b.PaymentStatus, &b.CreatedAt); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		seats, err := r.seatNumbers(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].SeatNumbers = seats
	}
	return out, nil
}

// UpdateStatus flips booking and payment state together.
func (r BookingRepo) UpdateStatus(ctx context.Context, id int64, booking models.BookingStatus, payment models.PaymentState) error {
	res, err := r.db().ExecContext(ctx,
		`UPDATE bookings SET booking_status=?, payment_status=? WHERE id=?`,
		string(booking), string(payment), id)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "booking"}
	}
	return nil
}

// ListExpiredPending returns confirmed bookings whose payment stayed pending
// past the cutoff, with their seat numbers, for the expiry sweep.
func (r BookingRepo) ListExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]models.Booking, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db().QueryContext(ctx,
		`SELECT id, code, trip_id, user_id, total_amount, booking_status, payment_status, created_at
		 FROM bookings
		 WHERE booking_status=? AND payment_status=? AND created_at < ?
		 ORDER BY created_at ASC LIMIT ?`,
		string(models.BookingConfirmed), string(models.PaymentPending), cutoff, limit)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		var b models.Booking
		if err := rows.Scan(&b.ID, &b.Code, &b.TripID, &b.UserID, &b.TotalAmount, &b.BookingStatus, &b.PaymentStatus, &b.CreatedAt); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		seats, err := r.seatNumbers(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].SeatNumbers = seats
	}
	return out, nil
}
