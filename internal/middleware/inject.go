package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/eventro/eventro/internal/booking"
	"github.com/eventro/eventro/internal/payment"
)

func DatabaseMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("db", db)
		c.Next()
	}
}

func BookingMiddleware(svc *booking.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("booking", svc)
		c.Next()
	}
}

func GetBookingService(c *gin.Context) *booking.Service {
	svc, exists := c.Get("booking")
	if !exists {
		return nil
	}
	return svc.(*booking.Service)
}

func HoldsMiddleware(holds *booking.HoldService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("holds", holds)
		c.Next()
	}
}

func GetHoldService(c *gin.Context) *booking.HoldService {
	holds, exists := c.Get("holds")
	if !exists {
		return nil
	}
	return holds.(*booking.HoldService)
}

func PaymentMiddleware(authorizer payment.Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("payments", authorizer)
		c.Next()
	}
}

func GetAuthorizer(c *gin.Context) payment.Authorizer {
	authorizer, exists := c.Get("payments")
	if !exists {
		return nil
	}
	return authorizer.(payment.Authorizer)
}
