package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/recipedium/backend/internal/middleware"
	"github.com/recipedium/backend/internal/models"
	"github.com/recipedium/backend/internal/service"
	"github.com/recipedium/backend/internal/types"
)

// UserHandler serves user reads and self/admin mutations.
type UserHandler struct {
	userService *service.UserService
	authService *service.AuthService
	log         *logrus.Logger
	development bool
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService, authService *service.AuthService, log *logrus.Logger, development bool) *UserHandler {
	return &UserHandler{userService: userService, authService: authService, log: log, development: development}
}

// RegisterRoutes registers the user routes. Listing and banning are
// admin-only; updates allow self or admin (checked in the service).
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	authRequired := middleware.RequireAuth(h.authService)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	users := router.Group("/users")
	users.Use(authRequired)
	{
		users.GET("", adminOnly, h.ListUsers)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id", h.UpdateUser)
		users.DELETE("/:id", adminOnly, h.DeactivateUser)
	}
}

// ListUsers returns all users. Admin only.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, h.development, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// GetUser returns one user by id.
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, h.development, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateUser merges the supplied fields into a user record.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req types.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, h.development, bindError(err))
		return
	}

	user, err := h.userService.Update(c.Request.Context(), callerID, middleware.CallerRole(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.log, h.development, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeactivateUser bans a user. Their content remains; they can no longer
// authenticate.
func (h *UserHandler) DeactivateUser(c *gin.Context) {
	user, err := h.userService.Deactivate(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, h.development, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}
