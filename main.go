package main

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"jejakin-server/config"
	"jejakin-server/database"
	"jejakin-server/jobs"
	"jejakin-server/middleware"
	"jejakin-server/models"
	"jejakin-server/routes"
	"jejakin-server/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, using system environment variables")
	}

	config.Load()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if config.AppConfig.Server.GinMode == "release" {
		logrus.SetLevel(logrus.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	} else {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := database.Initialize(); err != nil {
		logrus.Fatalf("failed to initialize database: %v", err)
	}
	database.InitRedis()

	if err := seedCategories(); err != nil {
		logrus.Errorf("category seed failed: %v", err)
	}
	adminEmail := getEnvOr("ADMIN_EMAIL", "admin@jejakin.com")
	adminPassword := getEnvOr("ADMIN_PASSWORD", "admin12345")
	if err := seedAdminUser(adminEmail, adminPassword); err != nil {
		logrus.Errorf("admin seed failed: %v", err)
	}

	services.InitMailer()
	defer services.Mailer.Stop()

	completionJob := jobs.NewCompletionJob(time.Hour)
	completionJob.Start()
	defer completionJob.Stop()

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Jejakin server is running",
			"time":    time.Now().UTC(),
		})
	})

	api := router.Group("/api/v1")
	{
		// Public surface. Auth endpoints carry stricter rate limiting.
		public := api.Group("")
		auth := api.Group("/auth")
		auth.Use(middleware.AuthRateLimitMiddleware())

		// Everything behind a valid token.
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())

		authProtected := api.Group("/auth")
		authProtected.Use(middleware.AuthMiddleware())

		// Partner and admin dashboard.
		dashboard := api.Group("")
		dashboard.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.RolePartner, models.RoleAdmin))

		// Admin only.
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.RoleAdmin))

		routes.RegisterAuthRoutes(auth, authProtected)
		routes.RegisterDestinationRoutes(public, protected)
		routes.RegisterGalleryRoutes(public, protected)
		routes.RegisterReviewRoutes(protected)
		routes.RegisterBookingRoutes(protected)
		routes.RegisterNotificationRoutes(protected)
		routes.RegisterWishlistRoutes(protected)
		routes.RegisterPaymentRoutes(protected)
		routes.RegisterCategoryRoutes(public, admin)
		routes.RegisterAdminRoutes(dashboard, admin)
	}

	port := config.AppConfig.Server.Port
	logrus.Infof("server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		logrus.Fatalf("server exited: %v", err)
	}
}

func corsOrigins() []string {
	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		parts := strings.Split(raw, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
		return origins
	}
	return []string{"http://localhost:3000", "http://localhost:5173"}
}

func getEnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
