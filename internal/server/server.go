package server

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nat2132/event-finder/config"
	"github.com/nat2132/event-finder/internal/billing"
	"github.com/nat2132/event-finder/internal/handlers"
	"github.com/nat2132/event-finder/internal/middleware"
	"github.com/nat2132/event-finder/internal/models"
	"github.com/nat2132/event-finder/internal/services"
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

	// The recommendation path fails closed: without its artifacts the
	// server does not come up at all.
	model, err := services.LoadSimilarityModel(cfg.RecommenderModelPath)
	if err != nil {
		return fmt.Errorf("failed to load similarity model: %v", err)
	}

	notifier := services.NewSalesNotifier(db)
	tickets := services.NewTicketService(db, notifier, cfg.UploadBasePath)
	catalog := services.NewCatalogService(db)
	recommender := services.NewRecommender(db, model)
	chapa := billing.NewClient(cfg.ChapaSecretKey)

	authMiddleware, err := middleware.ClerkAuthMiddleware(cfg.ClerkJWTPublicKey)
	if err != nil {
		return fmt.Errorf("failed to initialize auth middleware: %v", err)
	}

	r := gin.Default()

	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.ServicesMiddleware(tickets, catalog, recommender, chapa))

	setupRoutes(r, authMiddleware)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func setupRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := r.Group("/v1")
	{
		eventPublic := public.Group("/events")
		{
			eventPublic.GET("", handlers.ListEvents)
			eventPublic.GET("/categories", handlers.ListCategories)
			eventPublic.GET("/:id", handlers.GetEvent)
		}
	}

	protected := r.Group("/v1")
	protected.Use(auth)
	{
		protected.GET("/users/me", handlers.GetMe)
		protected.PUT("/users/me", handlers.UpdateMe)

		eventProtected := protected.Group("/events")
		{
			eventProtected.POST("", handlers.CreateEvent)
			eventProtected.PUT("/:id", handlers.UpdateEvent)
			eventProtected.POST("/:id/image", handlers.UploadEventImage)
			eventProtected.DELETE("/:id", handlers.DeleteEvent)
			eventProtected.GET("/:id/attendees", handlers.EventAttendees)
		}
		protected.GET("/recommendations", handlers.GetRecommendations)
		protected.GET("/organizer/dashboard", handlers.OrganizerDashboard)

		ticketRoutes := protected.Group("/tickets")
		{
			ticketRoutes.GET("", handlers.ListMyTickets)
			ticketRoutes.POST("", handlers.PurchaseTicket)
			ticketRoutes.GET("/:ticketId/qr", handlers.GetTicketQR)
			ticketRoutes.PATCH("/:ticketId/checkin", handlers.CheckInTicket)
		}

		savedRoutes := protected.Group("/saved-events")
		{
			savedRoutes.GET("", handlers.ListSavedEvents)
			savedRoutes.POST("", handlers.SaveEvent)
			savedRoutes.DELETE("/:id", handlers.UnsaveEvent)
		}

		notificationRoutes := protected.Group("/notifications")
		{
			notificationRoutes.GET("", handlers.ListNotifications)
			notificationRoutes.PATCH("/:id/read", handlers.MarkNotificationRead)
			notificationRoutes.POST("/read-all", handlers.MarkAllNotificationsRead)
		}

		calendarRoutes := protected.Group("/calendar-events")
		{
			calendarRoutes.GET("", handlers.ListCalendarEvents)
			calendarRoutes.POST("", handlers.CreateCalendarEvent)
			calendarRoutes.PUT("/:id", handlers.UpdateCalendarEvent)
			calendarRoutes.DELETE("/:id", handlers.DeleteCalendarEvent)
		}

		billingRoutes := protected.Group("/billing")
		{
			billingRoutes.POST("/upgrade", handlers.InitializeUpgrade)
			billingRoutes.GET("/verify/:txRef", handlers.VerifyUpgrade)
			billingRoutes.GET("/history", handlers.ListBillingHistory)
		}
	}

	admin := r.Group("/v1/admin")
	admin.Use(auth)
	{
		admin.GET("/dashboard", middleware.RequireAdmin(), handlers.AdminDashboard)
		admin.GET("/notifications", middleware.RequireAdmin(), handlers.AdminListNotifications)

		admin.GET("/users", middleware.RequireAdmin(), handlers.AdminListUsers)
		admin.PUT("/users/:id", middleware.RequireAdmin(models.AdminRoleSuper), handlers.AdminUpdateUser)
		admin.DELETE("/users/:id", middleware.RequireAdmin(models.AdminRoleSuper), handlers.AdminDeleteUser)

		admin.GET("/events", middleware.RequireAdmin(models.AdminRoleEvent), handlers.AdminListEvents)
		admin.DELETE("/events/:id", middleware.RequireAdmin(models.AdminRoleEvent), handlers.AdminDeleteEvent)
	}
}
