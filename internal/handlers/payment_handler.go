package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eventro/eventro/internal/helpers"
	"github.com/eventro/eventro/internal/middleware"
	"github.com/eventro/eventro/internal/payment"
)

// paymentTimeout bounds every direct hop to the payment processor.
const paymentTimeout = 15 * time.Second

type PaymentIntentRequest struct {
	Amount   int64  `json:"amount" binding:"required,min=1"`
	Currency string `json:"currency" binding:"required"`
}

// CreatePaymentIntent opens a payment intent for the client-confirm
// flow. Amount arrives in whole currency units and is converted to the
// smallest unit for the processor.
func CreatePaymentIntent(c *gin.Context) {
	var req PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	authorizer := middleware.GetAuthorizer(c)
	if authorizer == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Payment client not found.")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), paymentTimeout)
	defer cancel()
	clientSecret, err := authorizer.Authorize(ctx, req.Amount*100, req.Currency)
	if err != nil {
		if errors.Is(err, payment.ErrDeclined) || errors.Is(err, payment.ErrTimeout) {
			helpers.RespondWithError(c, http.StatusPaymentRequired, "Payment failed. Please try again.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Payment failed.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"client_secret": clientSecret,
	})
}
