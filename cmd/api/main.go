package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/xylcg/finance4/internal/config"
	"github.com/xylcg/finance4/internal/database"
	"github.com/xylcg/finance4/internal/handlers"
	"github.com/xylcg/finance4/internal/logger"
	"github.com/xylcg/finance4/internal/mailer"
	"github.com/xylcg/finance4/internal/middleware"
	"github.com/xylcg/finance4/internal/pagination"
	"github.com/xylcg/finance4/internal/reminder"
	"github.com/xylcg/finance4/internal/services"
	"github.com/xylcg/finance4/internal/upload"
	"github.com/xylcg/finance4/internal/validator"

	_ "github.com/xylcg/finance4/internal/docs" // Import swagger docs
)

// @title           Finance API
// @version         1.0
// @description     Personal finance API for tracking income and expenses, category budgets, savings goals and financial knowledge articles.
// @termsOfService  http://swagger.io/terms/

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
	pagination.SetDefaultPageSize(appConfig.PageSize)
	validator.Register()

	// Create database manager
	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	transactionService := services.NewTransactionService(db)
	budgetService := services.NewBudgetService(db)
	goalService := services.NewGoalService(db)
	knowledgeService := services.NewKnowledgeService(db)
	dashboardService := services.NewDashboardService(db, budgetService)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	uploads := upload.NewPolicy(appConfig)
	authHandler := handlers.NewAuthHandler(userService, auditService, uploads)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	goalHandler := handlers.NewGoalHandler(goalService, auditService)
	knowledgeHandler := handlers.NewKnowledgeHandler(knowledgeService, auditService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Start the daily reminder schedule. With no SMTP host configured the
	// engine still runs and logs what it would have sent.
	reminderEngine := reminder.NewEngine(db, mailer.New(appConfig), budgetService, appConfig)
	reminderCron := reminderEngine.Start()
	defer reminderCron.Stop()

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Static serving for uploaded avatars
	router.Static("/uploads", appConfig.UploadDir)

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile", authHandler.UpdateProfile)
	protected.POST("/profile/avatar", authHandler.UploadAvatar)

	// Dashboard
	protected.GET("/dashboard", dashboardHandler.GetDashboard)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetUserBudgets)
	budgets.GET("/:id", budgetHandler.GetBudgetByID)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)
	budgets.GET("/:id/summary", budgetHandler.GetBudgetSummary)

	// Goal routes
	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetUserGoals)
	goals.GET("/:id", goalHandler.GetGoalByID)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.GET("/:id/progress", goalHandler.GetGoalProgress)

	// Knowledge routes; /favorites must be registered before /:id
	knowledge := protected.Group("/knowledge")
	knowledge.GET("", knowledgeHandler.GetArticles)
	knowledge.GET("/favorites", knowledgeHandler.GetFavorites)
	knowledge.GET("/:id", knowledgeHandler.GetArticleByID)
	knowledge.POST("/:id/favorite", knowledgeHandler.AddFavorite)
	knowledge.DELETE("/:id/favorite", knowledgeHandler.RemoveFavorite)

	log.Infof("Starting finance backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
