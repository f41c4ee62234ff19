package routes

import (
	"net/http"

	"dentalcare-backend/internal/handlers"
	"dentalcare-backend/internal/middleware"
	"dentalcare-backend/internal/models"
	"dentalcare-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Options struct {
	// AuthRequired puts every route except auth and gateway notifications
	// behind JWT authentication.
	AuthRequired bool
	Tokens       *utils.TokenIssuer
	// RateLimiter is optional; nil disables rate limiting.
	RateLimiter *middleware.IPRateLimiter
	CORSOrigins []string
	Logger      zerolog.Logger
}

// NewRouter builds the engine with global middleware and every route.
func NewRouter(h *handlers.Handler, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(opts.Logger))
	r.Use(middleware.ErrorHandler(opts.Logger))
	r.Use(middleware.CORSMiddleware(opts.CORSOrigins))
	if opts.RateLimiter != nil {
		r.Use(middleware.RateLimitMiddleware(opts.RateLimiter))
	}

	SetupRoutes(r, h, opts)
	return r
}

func SetupRoutes(r *gin.Engine, h *handlers.Handler, opts Options) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", middleware.OptionalAuth(opts.Tokens), h.Register)
			auth.POST("/login", h.Login)
		}

		// Called by Midtrans; authenticated by signature, not JWT.
		api.POST("/payments/notifications", h.HandleMidtransNotification)

		protected := api.Group("")
		canDelete := []gin.HandlerFunc{}
		if opts.AuthRequired {
			protected.Use(middleware.AuthMiddleware(opts.Tokens))
			canDelete = append(canDelete, middleware.RequireRole(models.RoleAdmin, models.RoleDoctor))
		}
		{
			protected.GET("/users", h.ListUsers)
			protected.GET("/users/:id", h.GetUser)

			patients := protected.Group("/patients")
			{
				patients.GET("", h.ListPatients)
				patients.POST("", h.CreatePatient)
				patients.GET("/:id", h.GetPatient)
				patients.PUT("/:id", h.UpdatePatient)
				patients.DELETE("/:id", append(canDelete, h.DeletePatient)...)
				patients.GET("/:id/medical-history", h.PatientMedicalHistory)
				patients.GET("/:id/appointments", h.PatientAppointments)
				patients.GET("/:id/treatments", h.PatientTreatments)
				patients.GET("/:id/dental-chart", h.PatientDentalChart)
				patients.GET("/:id/payments", h.PatientPayments)
			}

			history := protected.Group("/medical-history")
			{
				history.GET("", h.ListMedicalHistory)
				history.POST("", h.CreateMedicalHistory)
				history.GET("/:id", h.GetMedicalHistory)
				history.PUT("/:id", h.UpdateMedicalHistory)
			}

			appointments := protected.Group("/appointments")
			{
				appointments.GET("", h.ListAppointments)
				appointments.POST("", h.CreateAppointment)
				appointments.GET("/:id", h.GetAppointment)
				appointments.PUT("/:id", h.UpdateAppointment)
				appointments.DELETE("/:id", h.DeleteAppointment)
			}

			treatments := protected.Group("/treatments")
			{
				treatments.GET("", h.ListTreatments)
				treatments.POST("", h.CreateTreatment)
				treatments.GET("/:id", h.GetTreatment)
				treatments.PUT("/:id", h.UpdateTreatment)
				treatments.DELETE("/:id", h.DeleteTreatment)
			}

			chart := protected.Group("/dental-chart")
			{
				chart.GET("", h.ListDentalChart)
				chart.POST("", h.CreateDentalChartEntry)
				chart.GET("/:id", h.GetDentalChartEntry)
				chart.PUT("/:id", h.UpdateDentalChartEntry)
			}

			payments := protected.Group("/payments")
			{
				payments.GET("", h.ListPayments)
				payments.POST("", h.CreatePayment)
				payments.GET("/:id", h.GetPayment)
				payments.PUT("/:id", h.UpdatePayment)
				payments.DELETE("/:id", h.DeletePayment)
				payments.POST("/:id/checkout", h.CheckoutPayment)
			}

			protected.GET("/dashboard/stats", h.DashboardStats)
			protected.GET("/billing/summary", h.BillingSummary)
			protected.GET("/billing/outstanding", h.OutstandingBalances)
			protected.GET("/reports/summary", h.ReportSummary)
		}
	}
}
