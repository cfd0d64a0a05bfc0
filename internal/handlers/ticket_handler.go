package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/eventro/eventro/internal/booking"
	"github.com/eventro/eventro/internal/helpers"
	"github.com/eventro/eventro/internal/middleware"
	"github.com/eventro/eventro/internal/payment"
	"github.com/eventro/eventro/internal/storage"
)

// GetBookedSeats returns the derived booked-seat set for an event. An
// event with no tickets yields an empty set, not an error.
func GetBookedSeats(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("eventId"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid event ID.")
		return
	}

	svc := middleware.GetBookingService(c)
	if svc == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Booking service not found.")
		return
	}

	availability, err := svc.Availability(c.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving booked seats.")
		return
	}

	c.JSON(http.StatusOK, availability)
}

type CheckoutRequest struct {
	EventID  uuid.UUID `json:"event_id" binding:"required"`
	Quantity int       `json:"quantity" binding:"required"`
	Seats    []int     `json:"seats" binding:"required"`
	Currency string    `json:"currency"`
}

// Checkout runs the full issuance sequence: validate the selection,
// authorize payment, persist the ticket with commit-time seat
// re-validation. Failure modes map to distinct statuses so the client
// can route the buyer back to the right screen.
func Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}
	email, _ := c.Get("email")
	name, _ := c.Get("name")
	buyerEmail, _ := email.(string)
	buyerName, _ := name.(string)

	svc := middleware.GetBookingService(c)
	if svc == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Booking service not found.")
		return
	}

	result, err := svc.Checkout(c.Request.Context(), booking.CheckoutInput{
		EventID:    req.EventID,
		UserID:     userID.(uuid.UUID),
		BuyerName:  buyerName,
		BuyerEmail: buyerEmail,
		Quantity:   req.Quantity,
		Seats:      req.Seats,
		Currency:   req.Currency,
	})
	if err != nil {
		respondCheckoutError(c, err)
		return
	}

	holds := middleware.GetHoldService(c)
	if holds != nil {
		holds.ReleaseSeats(c.Request.Context(), req.EventID, userID.(uuid.UUID), req.Seats)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Ticket created successfully.",
		"ticket":        result.Ticket,
		"client_secret": result.ClientSecret,
	})
}

func respondCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrInvalidSelection):
		helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		helpers.RespondWithError(c, http.StatusNotFound, "Event not found.")
	case errors.Is(err, booking.ErrSoldOut):
		helpers.RespondWithError(c, http.StatusConflict, "All seats are booked for this event.")
	case errors.Is(err, storage.ErrSeatConflict):
		helpers.RespondWithError(c, http.StatusConflict, "One or more selected seats were just booked. Please choose different seats.")
	case errors.Is(err, payment.ErrDeclined):
		helpers.RespondWithError(c, http.StatusPaymentRequired, "Payment was declined. Please try again.")
	case errors.Is(err, payment.ErrTimeout):
		helpers.RespondWithError(c, http.StatusPaymentRequired, "Payment authorization timed out. Please try again.")
	default:
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create ticket.")
	}
}

func ListUserTickets(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid user ID.")
		return
	}

	svc := middleware.GetBookingService(c)
	if svc == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Booking service not found.")
		return
	}

	tickets, err := svc.TicketsForUser(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving tickets.")
		return
	}

	c.JSON(http.StatusOK, tickets)
}

// ListUserTicketEmails collects the buyer emails across a user's
// tickets; the wallet view uses it for resend prompts.
func ListUserTicketEmails(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid user ID.")
		return
	}

	svc := middleware.GetBookingService(c)
	if svc == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Booking service not found.")
		return
	}

	tickets, err := svc.TicketsForUser(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving tickets.")
		return
	}

	emails := make([]string, 0, len(tickets))
	for _, ticket := range tickets {
		emails = append(emails, ticket.Details.Email)
	}

	c.JSON(http.StatusOK, gin.H{"emails": emails})
}

// DeleteTicket cancels a ticket, freeing its seats. The owner may
// cancel their own ticket; admins may cancel any.
func DeleteTicket(c *gin.Context) {
	ticketID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ticket ID.")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}
	isAdmin, _ := c.Get("is_admin")

	svc := middleware.GetBookingService(c)
	if svc == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Booking service not found.")
		return
	}

	ticket, err := svc.Ticket(c.Request.Context(), ticketID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "Ticket not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving ticket.")
		return
	}

	if ticket.UserID != userID.(uuid.UUID) && isAdmin != true {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to delete this ticket.")
		return
	}

	if err := svc.CancelTicket(c.Request.Context(), ticketID); err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete ticket.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ticket deleted successfully."})
}
