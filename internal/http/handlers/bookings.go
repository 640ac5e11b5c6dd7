package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/anudeep652/bus-booking-system-sub001/internal/domain/models"
	"github.com/anudeep652/bus-booking-system-sub001/internal/http/middleware"
	"github.com/anudeep652/bus-booking-system-sub001/internal/services"
)

// Reserver is the coordinator surface the booking handlers consume.
type Reserver interface {
	Book(ctx context.Context, userID, tripID int64, seats []int) (services.BookOutcome, error)
	Cancel(ctx context.Context, userID, bookingID int64) error
	Status(ctx context.Context, tripID int64, seats []int) (map[int]models.SeatStatus, error)
	SeatMap(ctx context.Context, tripID int64) ([]models.Seat, error)
}

type BookingHandler struct {
	Reservations Reserver
	Bookings     services.BookingStore
	Trips        services.TripCatalog
}

type bookRequest struct {
	TripID      int64 `json:"trip_id"`
	SeatNumbers []int `json:"seat_numbers"`
}

// POST /booking/book
// Translates coordinator outcomes into the external contract: 201 with the
// created booking, 409 listing taken seats, 400/404 for validation failures.
func (h BookingHandler) Book(c *gin.Context) {
	rc, ok := middleware.GetRequestContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	var req bookRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	outcome, err := h.Reservations.Book(c.Request.Context(), int64(rc.UserID), req.TripID, req.SeatNumbers)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if outcome.Conflicted() {
		respondError(c, http.StatusConflict, "seat_conflict", "seats already booked",
			gin.H{"taken": outcome.Taken})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking": outcome.Booking})
}

// GET /api/bookings/:id
func (h BookingHandler) GetByID(c *gin.Context) {
	rc, _ := middleware.GetRequestContext(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid booking id", nil)
		return
	}

	booking, err := h.Bookings.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if booking.UserID != int64(rc.UserID) && rc.Role != "admin" {
		respondError(c, http.StatusNotFound, "not_found", "booking not found", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// POST /api/bookings/:id/cancel
func (h BookingHandler) Cancel(c *gin.Context) {
	rc, _ := middleware.GetRequestContext(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid booking id", nil)
		return
	}

	if err := h.Reservations.Cancel(c.Request.Context(), int64(rc.UserID), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking cancelled"})
}

// GET /api/bookings
func (h BookingHandler) ListMine(c *gin.Context) {
	rc, _ := middleware.GetRequestContext(c)
	bookings, err := h.Bookings.ListByUser(c.Request.Context(), int64(rc.UserID))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// GET /api/bookings/:id/e-ticket
func (h BookingHandler) ETicket(c *gin.Context) {
	rc, _ := middleware.GetRequestContext(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid booking id", nil)
		return
	}

	svc := services.TicketService{
		Bookings:  h.Bookings,
		Trips:     h.Trips,
		RequestID: middleware.GetRequestID(c),
	}
	pdf, filename, err := svc.GenerateETicket(c.Request.Context(), int64(rc.UserID), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
