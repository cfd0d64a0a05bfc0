package server

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/eventro/eventro/config"
	"github.com/eventro/eventro/internal/booking"
	"github.com/eventro/eventro/internal/handlers"
	"github.com/eventro/eventro/internal/middleware"
	"github.com/eventro/eventro/internal/payment"
	"github.com/eventro/eventro/internal/storage"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	stripeCfg, err := config.LoadStripeConfig()
	if err != nil {
		return fmt.Errorf("failed to load stripe config: %v", err)
	}
	authorizer := config.InitStripeAuthorizer(stripeCfg)

	store := storage.NewGormStore(db)
	bookingSvc := booking.NewService(store, authorizer)
	holds := booking.NewHoldService(config.InitRedis(), booking.DefaultHoldTTL)

	r := gin.Default()

	origin := os.Getenv("CORS_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{origin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Static("/uploads", "./uploads")

	setupRoutes(r, db, bookingSvc, holds, authorizer)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB, bookingSvc *booking.Service, holds *booking.HoldService, authorizer payment.Authorizer) {
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.BookingMiddleware(bookingSvc))
	r.Use(middleware.HoldsMiddleware(holds))
	r.Use(middleware.PaymentMiddleware(authorizer))

	authLimiter := middleware.NewRateLimiter(middleware.LimiterConfig{
		RPS: 1, Burst: 5, IdleTTL: 10 * time.Minute,
	})

	public := r.Group("/v1")
	{
		public.POST("/register", authLimiter.Middleware(middleware.ClientIPKey), handlers.Register)
		public.POST("/login", authLimiter.Middleware(middleware.ClientIPKey), handlers.Login)
		public.POST("/auth/google", authLimiter.Middleware(middleware.ClientIPKey), handlers.GoogleLogin)
		public.POST("/logout", handlers.Logout)

		public.POST("/contact", handlers.SubmitContact)

		eventPublic := public.Group("/events")
		{
			eventPublic.GET("", handlers.ListEvents)
			eventPublic.GET("/organizer", handlers.ListEventsByOrganizer)
			eventPublic.GET("/name/:name", handlers.GetEventByName)
			eventPublic.GET("/:id", handlers.GetEvent)
			eventPublic.GET("/:id/ordersummary", handlers.OrderSummary)
			eventPublic.GET("/:id/ordersummary/paymentsummary", handlers.PaymentSummary)
		}

		public.GET("/tickets/event/:eventId/seats", handlers.GetBookedSeats)

		reviewPublic := public.Group("/reviews")
		{
			reviewPublic.GET("", handlers.ListReviews)
			reviewPublic.GET("/event/:id", handlers.ListEventReviews)
		}

		public.GET("/subscriptions/:email", handlers.GetSubscription)
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.GET("/profile", handlers.GetProfile)

		eventProtected := protected.Group("/events")
		{
			eventProtected.POST("", handlers.CreateEvent)
			eventProtected.PUT("/:id", handlers.UpdateEvent)
			eventProtected.DELETE("/:id", handlers.DeleteEvent)
		}

		protected.POST("/bookings/hold", handlers.HoldSeats)
		protected.DELETE("/bookings/hold", handlers.ReleaseSeats)
		protected.POST("/checkout", handlers.Checkout)
		protected.POST("/payment/create-payment-intent", handlers.CreatePaymentIntent)

		ticketProtected := protected.Group("/tickets")
		{
			ticketProtected.GET("/user/:userId", handlers.ListUserTickets)
			ticketProtected.GET("/user/:userId/emails", handlers.ListUserTicketEmails)
			ticketProtected.DELETE("/:id", handlers.DeleteTicket)
		}

		protected.POST("/reviews/:eventId", handlers.CreateReview)
		protected.POST("/subscriptions", handlers.CreateSubscription)

		admin := protected.Group("/admin")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.GET("/stats", handlers.AdminStats)
			admin.GET("/users", handlers.AdminListUsers)
			admin.DELETE("/users/:id", handlers.AdminDeleteUser)
			admin.GET("/events", handlers.AdminListEvents)
			admin.DELETE("/events/:id", handlers.AdminDeleteEvent)
			admin.GET("/tickets", handlers.AdminListTickets)
			admin.DELETE("/tickets/:id", handlers.DeleteTicket)
			admin.GET("/contact-messages", handlers.AdminListContacts)
			admin.DELETE("/contact-messages/:id", handlers.AdminDeleteContact)
		}
	}
}
