package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/anudeep652/bus-booking-system-sub001/internal/domain"
	"github.com/anudeep652/bus-booking-system-sub001/internal/domain/models"
	"github.com/anudeep652/bus-booking-system-sub001/internal/http/middleware"
	"github.com/anudeep652/bus-booking-system-sub001/internal/services"
)

type stubReserver struct {
	outcome services.BookOutcome
	err     error
}

func (s stubReserver) Book(ctx context.Context, userID, tripID int64, seats []int) (services.BookOutcome, error) {
	return s.outcome, s.err
}

func (s stubReserver) Cancel(ctx context.Context, userID, bookingID int64) error { return s.err }

func (s stubReserver) Status(ctx context.Context, tripID int64, seats []int) (map[int]models.SeatStatus, error) {
	return nil, s.err
}

func (s stubReserver) SeatMap(ctx context.Context, tripID int64) ([]models.Seat, error) {
	return nil, s.err
}

func bookingRouter(stub stubReserver, authed bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := BookingHandler{Reservations: stub}
	r.POST("/booking/book", func(c *gin.Context) {
		if authed {
			middleware.SetRequestContext(c, domain.RequestContext{UserID: 7, Role: "user"})
		}
	}, h.Book)
	return r
}

func doBook(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/booking/book", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBookRespondsCreated(t *testing.T) {
	booking := models.Booking{ID: 9, Code: "code-1", TripID: 1, UserID: 7, SeatNumbers: []int{1, 2, 3}}
	r := bookingRouter(stubReserver{outcome: services.BookOutcome{Booking: &booking}}, true)

	w := doBook(t, r, `{"trip_id":1,"seat_numbers":[1,2,3]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Booking models.Booking `json:"booking"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Booking.ID != 9 || len(resp.Booking.SeatNumbers) != 3 {
		t.Fatalf("unexpected booking payload: %+v", resp.Booking)
	}
}

func TestBookRespondsConflictWithTakenSeats(t *testing.T) {
	r := bookingRouter(stubReserver{outcome: services.BookOutcome{Taken: []int{1, 2, 3}}}, true)

	w := doBook(t, r, `{"trip_id":1,"seat_numbers":[1,2,3]}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Details struct {
			Taken []int `json:"taken"`
		} `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(resp.Details.Taken) != 3 {
		t.Fatalf("conflict must name the taken seats, got %+v", resp.Details)
	}
}

func TestBookRespondsBadRequestOnValidation(t *testing.T) {
	r := bookingRouter(stubReserver{err: domain.ValidationError{Field: "seat_numbers", Msg: "duplicate seat numbers"}}, true)

	w := doBook(t, r, `{"trip_id":1,"seat_numbers":[1,1]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestBookRespondsNotFoundOnUnknownTrip(t *testing.T) {
	r := bookingRouter(stubReserver{err: domain.NotFoundError{Resource: "trip"}}, true)

	w := doBook(t, r, `{"trip_id":42,"seat_numbers":[1]}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", w.Code, w.Body.String())
	}
}

func TestBookRespondsServerErrorOnLedgerFailure(t *testing.T) {
	r := bookingRouter(stubReserver{err: domain.InternalError{Msg: "ledger commit failed"}}, true)

	w := doBook(t, r, `{"trip_id":1,"seat_numbers":[1]}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d body=%s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "ledger commit failed") {
		t.Fatalf("internal detail leaked to the client: %s", w.Body.String())
	}
}

func TestBookRequiresIdentity(t *testing.T) {
	r := bookingRouter(stubReserver{}, false)

	w := doBook(t, r, `{"trip_id":1,"seat_numbers":[1]}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", w.Code)
	}
}

func TestBookRejectsMalformedBody(t *testing.T) {
	r := bookingRouter(stubReserver{}, true)

	w := doBook(t, r, `{"trip_id":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", w.Code)
	}
}
