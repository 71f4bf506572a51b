// Package routes assembles the HTTP API.
package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ukydev/car-rental/internal/auth"
	"github.com/ukydev/car-rental/internal/cache"
	"github.com/ukydev/car-rental/internal/config"
	"github.com/ukydev/car-rental/internal/db"
	"github.com/ukydev/car-rental/internal/events"
	"github.com/ukydev/car-rental/internal/handlers"
	"github.com/ukydev/car-rental/internal/middleware"
	"github.com/ukydev/car-rental/internal/models"
	"github.com/ukydev/car-rental/internal/services"
	"github.com/ukydev/car-rental/internal/storage"
)

// Deps holds the collaborators the router wires into handlers.
// Stats, Publisher and Uploader are optional.
type Deps struct {
	Cars      db.CarCollection
	Bookings  db.BookingCollection
	History   db.BookingHistoryCollection
	Reviews   db.ReviewCollection
	Users     db.UserCollection
	Auth      *auth.Service
	Health    handlers.Pinger
	Stats     cache.StatsCache
	Publisher events.Publisher
	Uploader  storage.ImageUploader
}

// NewRouter builds the gin engine with middleware and every API route.
func NewRouter(cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	handlers.ExposeErrorDetails = cfg.ExposeErrorDetails

	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery())
	router.Use(cors.New(corsConfig(cfg)))

	authMiddleware := middleware.NewAuthMiddleware(deps.Auth)
	limiter := middleware.NewRateLimitMiddleware(cfg.MaxRequestsPerMin)

	carService := services.NewCarService(deps.Cars, deps.Uploader, deps.Publisher)
	bookingService := services.NewBookingService(deps.Bookings, deps.Cars, deps.History, deps.Stats, deps.Publisher)
	historyService := services.NewHistoryService(deps.History, deps.Stats, deps.Publisher)

	authHandler := handlers.NewAuthHandler(deps.Auth, deps.Users)
	carHandler := handlers.NewCarHandler(carService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	historyHandler := handlers.NewBookingHistoryHandler(historyService)
	reviewHandler := handlers.NewReviewHandler(deps.Reviews, deps.Users)
	userHandler := handlers.NewUserHandler(deps.Users)

	router.GET("/health", handlers.Health(deps.Health))

	api := router.Group("/api", limiter.RateLimit())

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.Use(authMiddleware.Authenticate())
	authGroup.GET("/profile", authHandler.GetProfile)
	authGroup.PUT("/profile", authHandler.UpdateProfile)
	authGroup.POST("/change-password", authHandler.ChangePassword)

	api.GET("/users", authMiddleware.Authenticate(), authMiddleware.RequirePermission(models.ActionViewUsers), userHandler.List)

	cars := api.Group("/cars")
	cars.GET("", carHandler.List)
	cars.GET("/:id", carHandler.Get)
	manageCars := cars.Group("", authMiddleware.Authenticate(), authMiddleware.RequirePermission(models.ActionManageCars))
	manageCars.POST("", carHandler.Create)
	manageCars.PUT("/:id", carHandler.Update)
	manageCars.DELETE("/:id", carHandler.Delete)
	if carService.CanUpload() {
		manageCars.POST("/:id/image", carHandler.UploadImage)
	}

	bookings := api.Group("/bookings", authMiddleware.Authenticate())
	bookings.POST("", authMiddleware.RequirePermission(models.ActionCreateBooking), bookingHandler.Create)
	bookings.GET("/mine", bookingHandler.ListMine)
	manageBookings := bookings.Group("", authMiddleware.RequirePermission(models.ActionManageBookings))
	manageBookings.GET("", bookingHandler.List)
	manageBookings.GET("/:id", bookingHandler.Get)
	manageBookings.POST("/:id/complete", bookingHandler.Complete)
	manageBookings.DELETE("/:id", bookingHandler.Cancel)

	reviews := api.Group("/reviews")
	reviews.GET("", reviewHandler.List)
	reviews.POST("", authMiddleware.Authenticate(), authMiddleware.RequirePermission(models.ActionCreateReview), reviewHandler.Create)
	reviews.DELETE("/:id", authMiddleware.Authenticate(), authMiddleware.RequirePermission(models.ActionDeleteReview), reviewHandler.Delete)

	history := api.Group("/booking-history", authMiddleware.Authenticate())
	// Ownership of the email route is checked in the handler.
	history.GET("/email/:email", historyHandler.ByEmail)
	viewHistory := history.Group("", authMiddleware.RequirePermission(models.ActionViewBookingHistory))
	viewHistory.GET("", historyHandler.List)
	viewHistory.GET("/stats/summary", historyHandler.Stats)
	viewHistory.GET("/search/:query", historyHandler.Search)
	viewHistory.GET("/:id", historyHandler.Get)
	history.DELETE("/:id", authMiddleware.RequirePermission(models.ActionDeleteBookingHistory), historyHandler.Delete)

	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	origins := cfg.AllowedOrigins()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
		corsCfg.AllowCredentials = true
	}
	return corsCfg
}
