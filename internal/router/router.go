// internal/router/router.go
package router

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/isows-india/worklicense-backend/internal/config"
	"github.com/isows-india/worklicense-backend/internal/database"
	"github.com/isows-india/worklicense-backend/internal/events"
	"github.com/isows-india/worklicense-backend/internal/handlers"
	"github.com/isows-india/worklicense-backend/internal/middleware"
	"github.com/isows-india/worklicense-backend/internal/originality"
	"github.com/isows-india/worklicense-backend/internal/services"
)

func Initialize(cfg *config.Config, repos *database.Repositories, engine *originality.Engine, publisher events.Publisher) (*gin.Engine, error) {
	// Initialize services
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	authService := services.NewAuthService(cfg)
	workService := services.NewWorkService(repos, engine, publisher, cfg)
	licenseService := services.NewLicenseService(repos, workService, publisher)
	extractorService := services.NewExtractorService(cfg.Works.MaxUploadBytes)
	certificateService := services.NewCertificateService(licenseService, workService, storageService, cfg.Frontend.BaseURL)

	// Initialize handlers
	workHandler := handlers.NewWorkHandler(workService, extractorService, cfg.Works.MaxUploadBytes)
	licenseHandler := handlers.NewLicenseHandler(licenseService, certificateService)
	verificationHandler := handlers.NewVerificationHandler(licenseService)

	limits := middleware.NewRateLimits(cfg.RateLimit)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Accept-Language"},
		ExposeHeaders:    []string{"X-Total-Count", "X-Page", "X-Per-Page", "X-Total-Pages"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.I18nMiddleware())
	r.Use(limits.General())

	r.GET("/health", handlers.Health)
	r.GET("/docs", handlers.Docs)

	// API v1 routes
	v1 := r.Group("/v1")
	{
		works := v1.Group("/works")
		works.Use(middleware.AuthRequired(authService))
		{
			works.POST("", middleware.SanitizeInput("title"), workHandler.SubmitWork)
			works.POST("/upload", limits.Upload(), workHandler.UploadWork)
			works.GET("", workHandler.GetMyWorks)
			works.GET("/:id", workHandler.GetWork)
			works.PUT("/:id", middleware.SanitizeInput("title"), workHandler.EditWork)
			works.DELETE("/:id", workHandler.DeleteWork)
			works.GET("/:id/revisions", workHandler.GetRevisions)
			works.GET("/:id/plagiarism", workHandler.CheckPlagiarism)
		}

		licenses := v1.Group("/licenses")
		licenses.Use(middleware.AuthRequired(authService))
		{
			licenses.POST("", middleware.SanitizeInput(), licenseHandler.IssueLicense)
			licenses.GET("/my-licenses", licenseHandler.GetMyLicenses)
			licenses.GET("/:id", licenseHandler.GetLicense)
			licenses.POST("/:id/certificate", licenseHandler.GenerateCertificate)
		}

		// Public verification
		v1.GET("/verify/:id", limits.Verify(), verificationHandler.VerifyLicense)
	}

	// Certificates stored on local disk
	r.Static(cfg.Storage.PublicURLPrefix, cfg.Storage.PublicDir)

	return r, nil
}
