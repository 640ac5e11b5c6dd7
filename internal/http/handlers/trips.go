package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/anudeep652/bus-booking-system-sub001/internal/domain/models"
	"github.com/anudeep652/bus-booking-system-sub001/internal/http/middleware"
	"github.com/anudeep652/bus-booking-system-sub001/internal/repositories"
	"github.com/anudeep652/bus-booking-system-sub001/internal/utils"
)

type TripHandler struct {
	Trips        repositories.TripRepo
	Reservations Reserver
}

type createTripRequest struct {
	Source       string `json:"source"`
	Destination  string `json:"destination"`
	DepartsAt    string `json:"departs_at"`
	ArrivesAt    string `json:"arrives_at"`
	PricePerSeat int64  `json:"price_per_seat"`
	SeatCount    int    `json:"seat_count"`
}

// POST /api/trips (admin only)
func (h TripHandler) Create(c *gin.Context) {
	rc, _ := middleware.GetRequestContext(c)
	if rc.Role != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin role required"})
		return
	}

	var req createTripRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	departs, err := time.Parse(time.RFC3339, req.DepartsAt)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "departs_at must be RFC3339", err)
		return
	}
	arrives, err := time.Parse(time.RFC3339, req.ArrivesAt)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "arrives_at must be RFC3339", err)
		return
	}

	trip, err := h.Trips.Create(c.Request.Context(), models.Trip{
		Source:       req.Source,
		Destination:  req.Destination,
		DepartsAt:    departs,
		ArrivesAt:    arrives,
		PricePerSeat: req.PricePerSeat,
		SeatCount:    req.SeatCount,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "trip", "created",
		"trip_id="+strconv.FormatInt(trip.ID, 10))
	c.JSON(http.StatusCreated, gin.H{"trip": trip})
}

// GET /api/trips?source=&destination=
func (h TripHandler) List(c *gin.Context) {
	trips, err := h.Trips.List(c.Request.Context(), c.Query("source"), c.Query("destination"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips})
}

// GET /api/trips/:id
func (h TripHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid trip id", nil)
		return
	}
	trip, err := h.Trips.GetByID(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

// GET /api/trips/:id/seats
// With ?numbers=1,2,3 returns just those seats' statuses; otherwise the full
// seat map (cache-backed).
func (h TripHandler) Seats(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid trip id", nil)
		return
	}

	if raw := c.Query("numbers"); raw != "" {
		seats, ok := utils.ParseSeatList(raw)
		if !ok {
			RespondError(c, http.StatusBadRequest, "numbers must be a comma separated list of seat numbers", nil)
			return
		}
		statuses, err := h.Reservations.Status(c.Request.Context(), id, seats)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"trip_id": id, "statuses": statuses})
		return
	}

	seatMap, err := h.Reservations.SeatMap(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip_id": id, "seats": seatMap})
}
