package repositories

import (
	"context"
	"database/sql"
	"strings"

	intconfig "github.com/anudeep652/bus-booking-system-sub001/internal/config"
	"github.com/anudeep652/bus-booking-system-sub001/internal/domain"
	"github.com/anudeep652/bus-booking-system-sub001/internal/domain/models"
)

type TripRepo struct {
	DB *sql.DB
}

func (r TripRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Create inserts the trip and seeds its seat ledger rows 1..SeatCount in one
// transaction, so a trip is never visible without a complete seat map.
func (r TripRepo) Create(ctx context.Context, trip models.Trip) (models.Trip, error) {
	if trip.SeatCount <= 0 {
		return trip, domain.ValidationError{Field: "seat_count", Msg: "must be positive"}
	}
	if strings.TrimSpace(trip.Source) == "" || strings.TrimSpace(trip.Destination) == "" {
		return trip, domain.ValidationError{Field: "route", Msg: "source and destination are required"}
	}
	if !trip.ArrivesAt.After(trip.DepartsAt) {
		return trip, domain.ValidationError{Field: "arrives_at", Msg: "must be after departure"}
	}

	tx, err := r.db().BeginTx(ctx, nil)
	if err != nil {
		return trip, domain.InternalError{Err: err}
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO trips (source, destination, departs_at, arrives_at, price_per_seat, seat_count)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		trip.Source, trip.Destination, trip.DepartsAt, trip.ArrivesAt, trip.PricePerSeat, trip.SeatCount)
	if err != nil {
		return trip, domain.InternalError{Msg: "insert trip failed", Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return trip, domain.InternalError{Err: err}
	}
	trip.ID = id

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO trip_seats (trip_id, seat_number, status) VALUES (?, ?, ?)`)
	if err != nil {
		return trip, domain.InternalError{Err: err}
	}
	defer stmt.Close()

	for n := 1; n <= trip.SeatCount; n++ {
		if _, err := stmt.ExecContext(ctx, id, n, string(models.SeatAvailable)); err != nil {
			return trip, domain.InternalError{Msg: "seed seat ledger failed", Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return trip, domain.InternalError{Err: err}
	}
	return trip, nil
}

func (r TripRepo) GetByID(ctx context.Context, id int64) (models.Trip, error) {
	var t models.Trip
	err := r.db().QueryRowContext(ctx,
		`SELECT id, source, destination, departs_at, arrives_at, price_per_seat, seat_count, created_at
		 FROM trips WHERE id=?`, id).
		Scan(&t.ID, &t.Source, &t.Destination, &t.DepartsAt, &t.ArrivesAt, &t.PricePerSeat, &t.SeatCount, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return t, domain.NotFoundError{Resource: "trip", Err: err}
	}
	if err != nil {
		return t, domain.InternalError{Err: err}
	}
	return t, nil
}

// List returns trips, optionally filtered by route endpoints.
func (r TripRepo) List(ctx context.Context, source, destination string) ([]models.Trip, error) {
	query := `SELECT id, source, destination, departs_at, arrives_at, price_per_seat, seat_count, created_at FROM trips`
	where := []string{}
	args := []any{}
	if s := strings.TrimSpace(source); s != "" {
		where = append(where, "source LIKE ?")
		args = append(args, "%"+s+"%")
	}
	if d := strings.TrimSpace(destination); d != "" {
		where = append(where, "destination LIKE ?")
		args = append(args, "%"+d+"%")
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY departs_at ASC LIMIT 200"

	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.InternalError{Err: err}
	}
	defer rows.Close()

	out := []models.Trip{}
	for rows.Next() {
		var t models.Trip
		if err := rows.Scan(&t.ID, &t.Source, &t.Destination, &t.DepartsAt, &t.ArrivesAt, &t.PricePerSeat, &t.SeatCount, &t.CreatedAt); err != nil {
			return nil, domain.InternalError{Err: err}
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
