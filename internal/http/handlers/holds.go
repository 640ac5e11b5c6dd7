package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/anudeep652/bus-booking-system-sub001/internal/services"
	"github.com/anudeep652/bus-booking-system-sub001/internal/utils"
)

type HoldHandler struct {
	Holds services.SeatHoldService
}

type holdRequest struct {
	SeatNumbers []int `json:"seat_numbers"`
}

// POST /api/trips/:id/holds
// Parks seats for the hold TTL while the client completes checkout. Advisory
// only; booking still goes through the claim.
func (h HoldHandler) Create(c *gin.Context) {
	tripID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || tripID <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid trip id", nil)
		return
	}

	var req holdRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if len(req.SeatNumbers) == 0 {
		RespondError(c, http.StatusBadRequest, "seat_numbers is required", nil)
		return
	}

	token, ok, err := h.Holds.TryHold(c.Request.Context(), tripID, req.SeatNumbers)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "hold failed", err)
		return
	}
	if !ok {
		respondError(c, http.StatusConflict, "hold_conflict", "one or more seats are already held", nil)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"hold_token":  token,
		"ttl_seconds": int(h.Holds.TTL.Seconds()),
	})
}

// DELETE /api/trips/:id/holds/:token?seats=1,2,3
func (h HoldHandler) Release(c *gin.Context) {
	tripID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || tripID <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid trip id", nil)
		return
	}
	token := c.Param("token")
	seats, ok := utils.ParseSeatList(c.Query("seats"))
	if !ok || len(seats) == 0 {
		RespondError(c, http.StatusBadRequest, "seats query param is required", nil)
		return
	}

	if err := h.Holds.Release(c.Request.Context(), tripID, seats, token); err != nil {
		RespondError(c, http.StatusInternalServerError, "release failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "hold released"})
}
