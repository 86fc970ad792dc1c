// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/javajoker/keebmarket-backend/internal/config"
	"github.com/javajoker/keebmarket-backend/internal/handlers"
	"github.com/javajoker/keebmarket-backend/internal/middleware"
	"github.com/javajoker/keebmarket-backend/internal/services"
	"github.com/javajoker/keebmarket-backend/internal/utils"
)

// Initialize builds the HTTP engine. It fails only when object storage cannot be configured.
func Initialize(db *gorm.DB, cfg *config.Config) (*gin.Engine, error) {
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}
	return InitializeWithStorage(db, cfg, storageService), nil
}

func InitializeWithStorage(db *gorm.DB, cfg *config.Config, storageService *services.StorageService) *gin.Engine {
	// Initialize services
	listingService := services.NewListingService(db, cfg.Listings.MaxLimit)
	profileService := services.NewProfileService(db)
	reportService := services.NewReportService(db)

	// Initialize handlers
	listingHandler := handlers.NewListingHandler(listingService, storageService, cfg.Listings)
	userHandler := handlers.NewUserHandler(profileService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Session tokens come from the identity provider
	utils.SetJWTSecret(cfg.Auth.JWTSecret)
	utils.SetJWTExpectations(cfg.Auth.Issuer, cfg.Auth.Audience)

	generalLimit, uploadLimit := middleware.Passthrough(), middleware.Passthrough()
	if cfg.RateLimit.Enabled {
		generalLimit = middleware.NewRateLimiter(rate.Limit(cfg.RateLimit.RequestsPerSec), cfg.RateLimit.Burst).Middleware()
		uploadLimit = middleware.NewRateLimiter(rate.Every(time.Minute/time.Duration(max(cfg.RateLimit.UploadsPerMinute, 1))), cfg.RateLimit.UploadsPerMinute).Middleware()
	}

	// Initialize Gin router
	r := gin.New()
	r.MaxMultipartMemory = cfg.Storage.MaxImageSize

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg.Frontend.AllowedOrigins))
	r.Use(middleware.I18nMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"version": "1.0.0",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.AWS.AccessKeyID == "" {
		r.Static("/uploads", cfg.Storage.LocalDir)
	}

	api := r.Group("")
	api.Use(generalLimit, middleware.OptionalAuth())
	{
		// Public routes
		api.GET("/listings-query", listingHandler.QueryListings)
		api.GET("/listing-by-id", listingHandler.GetListing)
		api.GET("/seller-by-uuid", userHandler.GetSellerByUUID)
		api.POST("/report", reportHandler.CreateReport)
		api.GET("/categories", handlers.GetCategories)
		api.GET("/payment-methods", handlers.GetPaymentMethods)

		// Authenticated routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.POST("/listing-create", listingHandler.CreateListing)
			protected.POST("/listing-images", uploadLimit, listingHandler.UploadImages)
			protected.GET("/my-listings", listingHandler.MyListings)
			protected.DELETE("/my-listings", listingHandler.DeleteListing)

			protected.GET("/current-user", userHandler.GetCurrentUser)
			protected.PATCH("/current-user", userHandler.UpdateCurrentUser)
			protected.POST("/profile-upsert", userHandler.UpsertProfile)
		}
	}

	logrus.WithField("rate_limit", cfg.RateLimit.Enabled).Info("Routes registered")
	return r
}
