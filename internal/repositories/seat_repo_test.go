package repositories

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/anudeep652/bus-booking-system-sub001/internal/domain"
	"github.com/anudeep652/bus-booking-system-sub001/internal/domain/models"
)

func TestTryClaimCommitsWhenAllAvailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := SeatRepo{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT seat_number, status FROM trip_seats").
		WithArgs(int64(1), 1, 2, 3).
		WillReturnRows(sqlmock.NewRows([]string{"seat_number", "status"}).
			AddRow(1, "available").
			AddRow(2, "available").
			AddRow(3, "available"))
	mock.ExpectExec("UPDATE trip_seats").
		WithArgs("booked", "code-1", int64(1), 1, 2, 3, "available").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	res, err := repo.TryClaim(context.Background(), 1, []int{1, 2, 3}, "code-1")
	if err != nil {
		t.Fatalf("claim error: %v", err)
	}
	if !res.Claimed {
		t.Fatalf("expected claim to succeed, taken=%v", res.Taken)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTryClaimConflictRollsBackWithoutUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := SeatRepo{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT seat_number, status FROM trip_seats").
		WithArgs(int64(1), 1, 2, 3).
		WillReturnRows(sqlmock.NewRows([]string{"seat_number", "status"}).
			AddRow(1, "available").
			AddRow(2, "booked").
			AddRow(3, "available"))
	mock.ExpectRollback()

	res, err := repo.TryClaim(context.Background(), 1, []int{1, 2, 3}, "code-1")
	if err != nil {
		t.Fatalf("conflict must not be an error: %v", err)
	}
	if res.Claimed {
		t.Fatalf("claim should be rejected")
	}
	if len(res.Taken) != 1 || res.Taken[0] != 2 {
		t.Fatalf("conflict should name seat 2, got %v", res.Taken)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTryClaimWrongRowCountFailsInternal(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := SeatRepo{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT seat_number, status FROM trip_seats").
		WithArgs(int64(1), 1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"seat_number", "status"}).
			AddRow(1, "available").
			AddRow(2, "available"))
	mock.ExpectExec("UPDATE trip_seats").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	_, err = repo.TryClaim(context.Background(), 1, []int{1, 2}, "code-1")
	if !domain.IsInternal(err) {
		t.Fatalf("partial update must surface as internal error, got %v", err)
	}
}

func TestTryClaimRowIterationErrorSurfaced(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := SeatRepo{DB: db}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT seat_number, status FROM trip_seats").
		WithArgs(int64(1), 1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"seat_number", "status"}).
			AddRow(1, "available").
			AddRow(2, "available").
			RowError(1, errors.New("connection reset")))
	mock.ExpectRollback()

	_, err = repo.TryClaim(context.Background(), 1, []int{1, 2}, "code-1")
	if !domain.IsInternal(err) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if !strings.Contains(err.Error(), "read failed") {
		t.Fatalf("truncated read must not be reported as missing rows: %v", err)
	}
}

func TestTryClaimEmptySeatsRejected(t *testing.T) {
	repo := SeatRepo{}
	if _, err := repo.TryClaim(context.Background(), 1, nil, "code-1"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReleaseRevertsBookedSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := SeatRepo{DB: db}

	mock.ExpectExec("UPDATE trip_seats SET status").
		WithArgs("available", int64(1), 4, 5, "booked", "code-1").
		WillReturnResult(sqlmock.NewResult(0, 2))

	if err := repo.Release(context.Background(), 1, []int{4, 5}, "code-1"); err != nil {
		t.Fatalf("release error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStatusMapReadsRequestedSeats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	repo := SeatRepo{DB: db}

	mock.ExpectQuery("SELECT seat_number, status FROM trip_seats").
		WithArgs(int64(1), 1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"seat_number", "status"}).
			AddRow(1, "available").
			AddRow(2, "booked"))

	statuses, err := repo.StatusMap(context.Background(), 1, []int{1, 2})
	if err != nil {
		t.Fatalf("status error: %v", err)
	}
	if statuses[1] != models.SeatAvailable || statuses[2] != models.SeatBooked {
		t.Fatalf("unexpected statuses: %v", statuses)
	}
}
