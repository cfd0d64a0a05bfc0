package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eventro/eventro/internal/helpers"
	"github.com/eventro/eventro/internal/middleware"
	"github.com/eventro/eventro/internal/models"
	"github.com/eventro/eventro/internal/payment"
)

type SubscriptionRequest struct {
	Email         string `json:"email" binding:"required,email"`
	Plan          string `json:"plan" binding:"required"`
	Price         string `json:"price" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
}

var priceAmountPattern = regexp.MustCompile(`\$([\d.]+)`)

// priceToCents pulls the dollar amount out of a display price such as
// "$49 / month".
func priceToCents(price string) (int64, error) {
	match := priceAmountPattern.FindStringSubmatch(price)
	if match == nil {
		return 0, fmt.Errorf("no amount found in price %q", price)
	}
	amount, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, err
	}
	return int64(amount * 100), nil
}

// CreateSubscription charges the plan via the payment processor and
// stores the result. Only the tokenized card summary is persisted; the
// raw card number and CVV never reach the server.
func CreateSubscription(c *gin.Context) {
	var req SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var existing models.Subscription
	if result := gormDB.Where("email = ?", req.Email).First(&existing); result.Error == nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "User already has an active subscription.")
		return
	}

	amountCents, err := priceToCents(req.Price)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid price format.")
		return
	}

	authorizer := middleware.GetAuthorizer(c)
	if authorizer == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Payment client not found.")
		return
	}

	description := fmt.Sprintf("%s Subscription for %s", req.Plan, req.Email)
	ctx, cancel := context.WithTimeout(c.Request.Context(), paymentTimeout)
	defer cancel()
	charge, err := authorizer.Charge(ctx, amountCents, "usd", req.PaymentMethod, description, req.Email)
	if err != nil {
		if errors.Is(err, payment.ErrDeclined) || errors.Is(err, payment.ErrTimeout) {
			helpers.RespondWithError(c, http.StatusPaymentRequired, "Payment failed. Please try again.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Payment failed.")
		return
	}

	subscription := models.Subscription{
		ID:         uuid.New(),
		Email:      req.Email,
		Plan:       req.Plan,
		Price:      req.Price,
		CardBrand:  charge.CardBrand,
		CardLast4:  charge.CardLast4,
		PaymentRef: charge.Reference,
	}
	if err := gormDB.Create(&subscription).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to save subscription.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment successful and subscription saved.",
	})
}

func GetSubscription(c *gin.Context) {
	email := c.Param("email")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var subscription models.Subscription
	if err := gormDB.Where("email = ?", email).First(&subscription).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "No active subscription found for this user.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving subscription.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"subscription": gin.H{
			"plan":       subscription.Plan,
			"price":      subscription.Price,
			"card_brand": subscription.CardBrand,
			"card_last4": subscription.CardLast4,
			"created_at": subscription.CreatedAt,
			"active":     true,
		},
	})
}
