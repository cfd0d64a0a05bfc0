package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eventro/eventro/internal/booking"
	"github.com/eventro/eventro/internal/helpers"
	"github.com/eventro/eventro/internal/middleware"
	"github.com/eventro/eventro/internal/models"
	"github.com/eventro/eventro/internal/storage"
)

type HoldRequest struct {
	EventID uuid.UUID `json:"event_id" binding:"required"`
	Seats   []int     `json:"seats" binding:"required"`
}

// HoldSeats places a short-lived server-side reservation on the
// selected seats so the buyer's choice survives a page reload and is
// visible to concurrent sessions. The hold is all-or-nothing.
func HoldSeats(c *gin.Context) {
	var req HoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if len(req.Seats) == 0 || len(req.Seats) > booking.MaxSeatsPerOrder {
		helpers.RespondWithError(c, http.StatusBadRequest, "You can hold between 1 and 2 seats.")
		return
	}
	for _, seat := range req.Seats {
		if seat < 1 || seat > models.SeatCapacity {
			helpers.RespondWithError(c, http.StatusBadRequest, "Seat number out of range.")
			return
		}
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	svc := middleware.GetBookingService(c)
	holds := middleware.GetHoldService(c)
	if svc == nil || holds == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Booking service not found.")
		return
	}

	availability, err := svc.Availability(c.Request.Context(), req.EventID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving booked seats.")
		return
	}
	if availability.SoldOut {
		helpers.RespondWithError(c, http.StatusConflict, "All seats are booked for this event.")
		return
	}

	booked := make(map[int]struct{}, len(availability.BookedSeats))
	for _, seat := range availability.BookedSeats {
		booked[seat] = struct{}{}
	}
	for _, seat := range req.Seats {
		if _, taken := booked[seat]; taken {
			helpers.RespondWithError(c, http.StatusConflict, "One or more selected seats are already booked.")
			return
		}
	}

	expiresAt, err := holds.HoldSeats(c.Request.Context(), req.EventID, userID.(uuid.UUID), req.Seats)
	if err != nil {
		if errors.Is(err, booking.ErrSeatHeld) {
			helpers.RespondWithError(c, http.StatusConflict, err.Error())
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to hold seats.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Seats held.",
		"seats":      req.Seats,
		"expires_at": expiresAt,
	})
}

// ReleaseSeats drops the caller's holds, typically when the buyer edits
// their order or abandons checkout.
func ReleaseSeats(c *gin.Context) {
	var req HoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	holds := middleware.GetHoldService(c)
	if holds == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Booking service not found.")
		return
	}

	holds.ReleaseSeats(c.Request.Context(), req.EventID, userID.(uuid.UUID), req.Seats)
	c.JSON(http.StatusOK, gin.H{"message": "Seats released."})
}
