package routes

import (
	"os"
	"strings"

	"homeserve-backend/config"
	"homeserve-backend/controllers"
	"homeserve-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		allowedOrigins = strings.Split(env, ",")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", controllers.Me)
	}

	// Public catalog and guest booking
	public := r.Group("/api")
	{
		public.GET("/categories", controllers.GetCategories)
		public.GET("/categories/:id", controllers.GetCategory)
		public.GET("/services", controllers.GetServices)
		public.GET("/services/:id", controllers.GetService)
		public.GET("/providers", controllers.GetProviders)
		public.GET("/providers/:id", controllers.GetProvider)
		public.GET("/providers/:id/reviews", controllers.GetProviderReviews)

		// Guest bookings carry no token; a valid token links the booking
		guest := public.Group("")
		guest.Use(utils.OptionalAuthMiddleware())
		{
			guest.POST("/bookings", controllers.CreateBooking)
			guest.GET("/bookings/:id", controllers.GetBooking)
		}
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Booking lifecycle
		bookings := api.Group("/bookings")
		{
			bookings.GET("", controllers.GetMyBookings)
			bookings.POST("/:id/confirm", controllers.ConfirmBooking)
			bookings.POST("/:id/start", controllers.StartBooking)
			bookings.POST("/:id/complete", controllers.CompleteBooking)
			bookings.POST("/:id/cancel", controllers.CancelBooking)
			bookings.POST("/:id/payment", controllers.CapturePayment)
			bookings.GET("/:id/payment", controllers.GetBookingPayment)
		}

		// Provider self-service
		provider := api.Group("/provider")
		{
			provider.POST("/register", controllers.RegisterProvider)
			provider.GET("/profile", controllers.GetMyProviderProfile)
			provider.PUT("/profile", controllers.UpdateProviderProfile)
			provider.GET("/services", controllers.GetMyServices)
			provider.POST("/services", controllers.CreateService)
			provider.PUT("/services/:id", controllers.UpdateService)
			provider.DELETE("/services/:id", controllers.DeleteService)
			provider.GET("/earnings", controllers.GetMyEarnings)
			provider.GET("/dashboard", controllers.GetDashboardOverview)
		}

		// Reviews
		reviews := api.Group("/reviews")
		{
			reviews.POST("", controllers.CreateReview)
			reviews.PUT("/:id/respond", controllers.RespondToReview)
		}

		// Admin surface
		admin := api.Group("/admin")
		admin.Use(utils.RequireRole("admin"))
		{
			admin.POST("/categories", controllers.CreateCategory)
			admin.PUT("/categories/:id", controllers.UpdateCategory)
			admin.GET("/providers", controllers.ListProviders)
			admin.PUT("/providers/:id/verify", controllers.VerifyProvider)
			admin.GET("/services/pending", controllers.ListPendingServices)
			admin.PUT("/services/:id/approve", controllers.ApproveService)
			admin.PUT("/payments/:id", controllers.UpdatePayment)
			admin.PUT("/earnings/:id/payout", controllers.UpdatePayoutStatus)
			admin.POST("/reconcile", controllers.RunReconciliation)
		}
	}

	return r
}
