package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eventro/eventro/internal/booking"
	"github.com/eventro/eventro/internal/helpers"
	"github.com/eventro/eventro/internal/middleware"
)

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required"`
}

// CreateReview accepts a review only from a user holding a ticket for
// the event; the ticket is the proof of purchase.
func CreateReview(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	svc := middleware.GetBookingService(c)
	if svc == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Booking service not found.")
		return
	}

	review, err := svc.SubmitReview(c.Request.Context(), eventID, userID.(uuid.UUID), req.Rating, req.Comment)
	if err != nil {
		if errors.Is(err, booking.ErrNotEligible) {
			helpers.RespondWithError(c, http.StatusForbidden, "No ticket found for this user and event.")
			return
		}
		if errors.Is(err, booking.ErrInvalidSelection) {
			helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to submit review.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review added successfully.",
		"review":  review,
	})
}

func ListReviews(c *gin.Context) {
	svc := middleware.GetBookingService(c)
	if svc == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Booking service not found.")
		return
	}

	reviews, err := svc.Reviews(c.Request.Context())
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving reviews.")
		return
	}

	c.JSON(http.StatusOK, reviews)
}

func ListEventReviews(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	svc := middleware.GetBookingService(c)
	if svc == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Booking service not found.")
		return
	}

	reviews, err := svc.ReviewsForEvent(c.Request.Context(), eventID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving reviews.")
		return
	}

	c.JSON(http.StatusOK, reviews)
}
