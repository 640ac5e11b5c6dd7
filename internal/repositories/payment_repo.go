package repositories

import (
	"context"
	"database/sql"

	intconfig "github.com/anudeep652/bus-booking-system-sub001/internal/config"
	"github.com/anudeep652/bus-booking-system-sub001/internal/domain"
	"github.com/anudeep652/bus-booking-system-sub001/internal/domain/models"
)

type PaymentRepo struct {
	DB *sql.DB
}

func (r PaymentRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r PaymentRepo) Create(ctx context.Context, p models.Payment) (models.Payment, error) {
	res, err := r.db().ExecContext(ctx,
		`INSERT INTO payments (booking_id, user_id, amount, method, status)
		 VALUES (?, ?, ?, ?, ?)`,
		p.BookingID, p.UserID, p.Amount, p.Method, string(p.Status))
	if err != nil {
		return p, domain.InternalError{Msg: "insert payment failed", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return p, domain.InternalError{Err: err}
	}
	p.ID = id
	return p, nil
}

func (r PaymentRepo) GetByID(ctx context.Context, id int64) (models.Payment, error) {
	var p models.Payment
	err := r.db().QueryRowContext(ctx,
		`SELECT id, booking_id, user_id, amount, method, status, created_at, updated_at
		 FROM payments WHERE id=?`, id).
		Scan(&p.ID, &p.BookingID, &p.UserID, &p.Amount, &p.Method, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return p, domain.NotFoundError{Resource: "payment", Err: err}
	}
	if err != nil {
		return p, domain.InternalError{Err: err}
	}
	return p, nil
}

func (r PaymentRepo) GetByBookingID(ctx context.Context, bookingID int64) (models.Payment, error) {
	var p models.Payment
	err := r.db().QueryRowContext(ctx,
		`SELECT id, booking_id, user_id, amount, method, status, created_at, updated_at
		 FROM payments WHERE booking_id=? ORDER BY id DESC LIMIT 1`, bookingID).
		Scan(&p.ID, &p.BookingID, &p.UserID, &p.Amount, &p.Method, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return p, domain.NotFoundError{Resource: "payment", Err: err}
	}
	if err != nil {
		return p, domain.InternalError{Err: err}
	}
	return p, nil
}

func (r PaymentRepo) UpdateStatus(ctx context.Context, id int64, status models.PaymentStatus, method string) error {
	query := `UPDATE payments SET status=?`
	args := []any{string(status)}
	if method != "" {
		query += `, method=?`
		args = append(args, method)
	}
	query += ` WHERE id=?`
	args = append(args, id)

	res, err := r.db().ExecContext(ctx, query, args...)
	if err != nil {
		return domain.InternalError{Err: err}
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "payment"}
	}
	return nil
}
