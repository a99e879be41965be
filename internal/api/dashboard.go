package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/recipedium/backend/internal/middleware"
	"github.com/recipedium/backend/internal/models"
	"github.com/recipedium/backend/internal/service"
	"github.com/recipedium/backend/internal/types"
)

// DashboardHandler serves the admin dashboard statistics.
type DashboardHandler struct {
	db          *gorm.DB
	authService *service.AuthService
	log         *logrus.Logger
	development bool
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(db *gorm.DB, authService *service.AuthService, log *logrus.Logger, development bool) *DashboardHandler {
	return &DashboardHandler{db: db, authService: authService, log: log, development: development}
}

// RegisterRoutes registers the admin dashboard routes.
func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	admin.Use(middleware.RequireAuth(h.authService), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/stats", h.GetStats)
	}
}

// DashboardStats holds the totals shown on the admin dashboard.
type DashboardStats struct {
	Users           int64 `json:"users"`
	Recipes         int64 `json:"recipes"`
	Likes           int64 `json:"likes"`
	Comments        int64 `json:"comments"`
	RecipesThisWeek int64 `json:"recipes_this_week"`
}

// GetStats returns application-wide totals.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()
	var stats DashboardStats

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.User{}, &stats.Users},
		{&models.Recipe{}, &stats.Recipes},
		{&models.RecipeLike{}, &stats.Likes},
		{&models.RecipeComment{}, &stats.Comments},
	}
	for _, count := range counts {
		if err := h.db.WithContext(ctx).Model(count.model).Count(count.dest).Error; err != nil {
			respondError(c, h.log, h.development, types.NewInternalError(err))
			return
		}
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	err := h.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("created_at >= ?", weekAgo).
		Count(&stats.RecipesThisWeek).Error
	if err != nil {
		respondError(c, h.log, h.development, types.NewInternalError(err))
		return
	}

	c.JSON(http.StatusOK, stats)
}
