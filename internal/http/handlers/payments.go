package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/anudeep652/bus-booking-system-sub001/internal/http/middleware"
	"github.com/anudeep652/bus-booking-system-sub001/internal/services"
)

type PaymentHandler struct {
	Payments services.PaymentStore
	Bookings services.BookingStore
	Ledger   services.SeatLedger
}

func (h PaymentHandler) svc(c *gin.Context) services.PaymentService {
	return services.PaymentService{
		Payments:  h.Payments,
		Bookings:  h.Bookings,
		Ledger:    h.Ledger,
		RequestID: middleware.GetRequestID(c),
	}
}

type confirmPaymentRequest struct {
	Method string `json:"method"`
}

// POST /api/payments/:id/confirm
func (h PaymentHandler) Confirm(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid payment id", nil)
		return
	}

	var req confirmPaymentRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	if err := h.svc(c).Confirm(c.Request.Context(), id, req.Method); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payment confirmed"})
}

// POST /api/payments/:id/fail
func (h PaymentHandler) Fail(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid payment id", nil)
		return
	}

	if err := h.svc(c).Fail(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payment marked failed"})
}

// GET /api/bookings/:id/payment
func (h PaymentHandler) GetByBooking(c *gin.Context) {
	rc, _ := middleware.GetRequestContext(c)
	bookingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bookingID <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid booking id", nil)
		return
	}

	booking, err := h.Bookings.GetByID(c.Request.Context(), bookingID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if booking.UserID != int64(rc.UserID) && rc.Role != "admin" {
		respondError(c, http.StatusNotFound, "not_found", "booking not found", nil)
		return
	}

	payment, err := h.Payments.GetByBookingID(c.Request.Context(), bookingID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment})
}
