package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"spesecasa/internal/clock"
	"spesecasa/internal/config"
	"spesecasa/internal/database"
	"spesecasa/internal/handlers"
	"spesecasa/internal/logger"
	"spesecasa/internal/mail"
	"spesecasa/internal/middleware"
	"spesecasa/internal/secrets"
	"spesecasa/internal/services"
	"spesecasa/internal/validator"

	_ "spesecasa/internal/docs" // Import swagger docs
)

// @title           SpeseCasa API
// @version         1.0
// @description     Household finance tracker: movements, recurring expenses, budgets and savings goals shared by a family.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	box, err := secretBox(appConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize secret box: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	today := clock.System{}
	userService := services.NewUserService(db)
	familyService := services.NewFamilyService(db)
	categoryService := services.NewCategoryService(db)
	movementService := services.NewMovementService(db)
	recurringService := services.NewRecurringService(db, today)
	budgetService := services.NewBudgetService(db)
	goalService := services.NewGoalService(db)
	dashboardService := services.NewDashboardService(db, today)
	searchService := services.NewSearchService(db)
	smtpService := services.NewSMTPConfigService(db, box, mail.NewSMTPSender())
	resetService := services.NewPasswordResetService(db, userService, smtpService, appConfig)
	auditService := services.NewAuditService(db)

	if err := bootstrapAdmin(userService, appConfig); err != nil {
		return err
	}

	tokens := middleware.NewTokenIssuer(appConfig)
	validator.Register()

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterRoutes(router.Group("/api/v1"), handlers.Set{
		Auth:      handlers.NewAuthHandler(userService, resetService, auditService, tokens),
		Families:  handlers.NewFamilyHandler(familyService, auditService),
		Users:     handlers.NewUserHandler(userService, auditService),
		Config:    handlers.NewConfigHandler(smtpService, auditService),
		Category:  handlers.NewCategoryHandler(categoryService, auditService),
		Movement:  handlers.NewMovementHandler(movementService, recurringService, dashboardService, auditService),
		Recurring: handlers.NewRecurringHandler(recurringService, auditService),
		Budget:    handlers.NewBudgetHandler(budgetService, auditService),
		Goal:      handlers.NewGoalHandler(goalService, auditService),
		Dashboard: handlers.NewDashboardHandler(dashboardService, today),
		Search:    handlers.NewSearchHandler(searchService),
	}, tokens)

	log.Infof("Starting SpeseCasa backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}

// secretBox seals stored SMTP passwords. Without a configured key the box is
// ephemeral and passwords saved before a restart can no longer be opened.
func secretBox(cfg *config.Config) (*secrets.Box, error) {
	if cfg.SMTPEncryptionKey != "" {
		return secrets.NewBox(cfg.SMTPEncryptionKey)
	}
	logger.Get().Warn("SMTP_ENCRYPTION_KEY not set, using an ephemeral key")
	return secrets.NewEphemeralBox()
}

func bootstrapAdmin(users services.UserServicer, cfg *config.Config) error {
	admin, created, err := users.EnsureSuperuser(cfg.AdminUsername, cfg.AdminPassword, cfg.AdminEmail, cfg.AdminFamilyName)
	if err != nil {
		return fmt.Errorf("failed to bootstrap admin user: %w", err)
	}
	if created {
		logger.Get().Infow("admin user created", "username", admin.Username, "family", cfg.AdminFamilyName)
	}
	return nil
}
