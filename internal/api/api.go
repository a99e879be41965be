package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/recipedium/backend/config"
	"github.com/recipedium/backend/internal/database"
	"github.com/recipedium/backend/internal/middleware"
	"github.com/recipedium/backend/internal/service"
)

// HealthCheck reports the health of the API, including database
// reachability.
func HealthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := database.HealthCheck(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Recipedium API is running",
		})
	}
}

// RegisterRoutes wires services and handlers onto the router. redisClient
// and s3Config may be nil: rate limiting and image upload are optional
// capabilities, everything else runs without them.
func RegisterRoutes(
	router *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	log *logrus.Logger,
	redisClient *redis.Client,
	s3Config *config.S3Config,
) {
	router.GET("/health", HealthCheck(db))

	authService := service.NewAuthService(db, cfg.JWT.Secret)
	recipeService := service.NewRecipeService(db)
	userService := service.NewUserService(db)

	var imageService *service.ImageService
	if s3Config != nil {
		imageService = service.NewImageService(s3Config)
	}

	var createLimiter *middleware.RateLimiter
	if redisClient != nil {
		createLimiter = middleware.NewRecipeCreationRateLimiter(redisClient)
	}

	development := cfg.IsDevelopment()
	authHandler := NewAuthHandler(authService, log, development)
	recipeHandler := NewRecipeHandler(recipeService, authService, imageService, createLimiter, log, development)
	userHandler := NewUserHandler(userService, authService, log, development)
	dashboardHandler := NewDashboardHandler(db, authService, log, development)

	apiGroup := router.Group("/api")
	authHandler.RegisterRoutes(apiGroup)
	recipeHandler.RegisterRoutes(apiGroup)
	userHandler.RegisterRoutes(apiGroup)
	dashboardHandler.RegisterRoutes(apiGroup)
}
