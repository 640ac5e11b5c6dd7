package repositories

import (
	"context"
	"database/sql"
	"strings"

	intconfig "github.com/anudeep652/bus-booking-system-sub001/internal/config"
	"github.com/anudeep652/bus-booking-system-sub001/internal/domain"
	"github.com/anudeep652/bus-booking-system-sub001/internal/domain/models"
)

// SeatRepo is the seat ledger store: the authoritative per-trip record of
// seat occupancy. TryClaim is the only mutating entry point for bookings and
// runs as a single InnoDB transaction so a claim is all-or-nothing.
type SeatRepo struct {
	DB *sql.DB
}

func (r SeatRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func seatPlaceholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func seatArgs(tripID int64, seats []int) []any {
	args := make([]any, 0, len(seats)+1)
	args = append(args, tripID)
	for _, s := range seats {
		args = append(args, s)
	}
	return args
}

// TryClaim atomically transitions the requested seats from available to
// booked, stamping them with the booking code. Seats are locked in ascending
// seat_number order; callers pass a sorted, de-duplicated list. If any seat
// is not available at decision time nothing is claimed and the conflicting
// seat numbers are returned.
func (r SeatRepo) TryClaim(ctx context.Context, tripID int64, seats []int, bookingCode string) (models.ClaimResult, error) {
	var res models.ClaimResult
	if len(seats) == 0 {
		return res, domain.ValidationError{Field: "seat_numbers", Msg: "empty seat list"}
	}

	tx, err := r.db().BeginTx(ctx, nil)
	if err != nil {
		return res, domain.InternalError{Msg: "ledger transaction begin failed", Err: err}
	}
	defer tx.Rollback()

	ph := seatPlaceholders(len(seats))
	rows, err := tx.QueryContext(ctx,
		`SELECT seat_number, status FROM trip_seats
		 WHERE trip_id=? AND seat_number IN (`+ph+`)
		 ORDER BY seat_number FOR UPDATE`,
		seatArgs(tripID, seats)...)
	if err != nil {
		return res, domain.InternalError{Msg: "ledger read failed", Err: err}
	}

	statuses := make(map[int]models.SeatStatus, len(seats))
	for rows.Next() {
		var num int
		var status string
		if err := rows.Scan(&num, &status); err != nil {
			rows.Close()
			return res, domain.InternalError{Msg: "ledger scan failed", Err: err}
		}
		statuses[num] = models.SeatStatus(status)
	}
	// an iteration error truncates the result set; it must not be read as
	// missing ledger rows
	if err := rows.Err(); err != nil {
		rows.Close()
		return res, domain.InternalError{Msg: "ledger read failed", Err: err}
	}
	if err := rows.Close(); err != nil {
		return res, domain.InternalError{Msg: "ledger read failed", Err: err}
	}

	taken := []int{}
	for _, s := range seats {
		st, ok := statuses[s]
		if !ok {
			// seat row missing for an in-range seat means the ledger was
			// never seeded for this trip
			return res, domain.InternalError{Msg: "seat ledger missing rows"}
		}
		if st != models.SeatAvailable {
			taken = append(taken, s)
		}
	}
	if len(taken) > 0 {
		return models.ClaimResult{Claimed: false, Taken: taken}, nil
	}

	out, err := tx.ExecContext(ctx,
		`UPDATE trip_seats SET status=?, booking_code=?
		 WHERE trip_id=? AND seat_number IN (`+ph+`) AND status=?`,
		append(append([]any{string(models.SeatBooked), bookingCode}, seatArgs(tripID, seats)...), string(models.SeatAvailable))...)
	if err != nil {
		return res, domain.InternalError{Msg: "ledger update failed", Err: err}
	}
	affected, err := out.RowsAffected()
	if err != nil {
		return res, domain.InternalError{Msg: "ledger update failed", Err: err}
	}
	if affected != int64(len(seats)) {
		return res, domain.InternalError{Msg: "ledger update claimed wrong row count"}
	}

	if err := tx.Commit(); err != nil {
		return res, domain.InternalError{Msg: "ledger commit failed", Err: err}
	}
	return models.ClaimResult{Claimed: true, Seats: seats}, nil
}

// Release returns a booking's seats to available so they become claimable
// again. The booking_code predicate keeps a retried release from freeing
// seats that were already released and claimed by another booking, and makes
// releasing already-released seats a no-op.
func (r SeatRepo) Release(ctx context.Context, tripID int64, seats []int, bookingCode string) error {
	if len(seats) == 0 {
		return nil
	}
	ph := seatPlaceholders(len(seats))
	_, err := r.db().ExecContext(ctx,
		`UPDATE trip_seats SET status=?, booking_code=NULL
		 WHERE trip_id=? AND seat_number IN (`+ph+`) AND status=? AND booking_code=?`,
		append(append([]any{string(models.SeatAvailable)}, seatArgs(tripID, seats)...), string(models.SeatBooked), bookingCode)...)
	if err != nil {
		return domain.InternalError{Msg: "ledger release failed", Err: err}
	}
	return nil
}

// StatusMap is a snapshot read and never blocks writers. With an empty seat
// list it returns the whole trip.
func (r SeatRepo) StatusMap(ctx context.Context, tripID int64, seats []int) (map[int]models.SeatStatus, error) {
	query := `SELECT seat_number, status FROM trip_seats WHERE trip_id=?`
	args := []any{tripID}
	if len(seats) > 0 {
		query += ` AND seat_number IN (` + seatPlaceholders(len(seats)) + `)`
		args = seatArgs(tripID, seats)
	}
	query += ` ORDER BY seat_number`

	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.InternalError{Msg: "ledger read failed", Err: err}
	}
	defer rows.Close()

	out := map[int]models.SeatStatus{}
	for rows.Next() {
		var num int
		var status string
		if err := rows.Scan(&num, &status); err != nil {
			return nil, domain.InternalError{Msg: "ledger scan failed", Err: err}
		}
		out[num] = models.SeatStatus(status)
	}
	return out, rows.Err()
}

// ListByTrip returns the full seat map for a trip.
func (r SeatRepo) ListByTrip(ctx context.Context, tripID int64) ([]models.Seat, error) {
	rows, err := r.db().QueryContext(ctx,
		`SELECT trip_id, seat_number, status, booking_code
		 FROM trip_seats WHERE trip_id=? ORDER BY seat_number`, tripID)
	if err != nil {
		return nil, domain.InternalError{Msg: "ledger read failed", Err: err}
	}
	defer rows.Close()

	out := []models.Seat{}
	for rows.Next() {
		var s models.Seat
		var code sql.NullString
		if err := rows.Scan(&s.TripID, &s.SeatNumber, &s.Status, &code); err != nil {
			return nil, domain.InternalError{Msg: "ledger scan failed", Err: err}
		}
		if code.Valid && code.String != "" {
			c := code.String
			s.BookingCode = &c
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
