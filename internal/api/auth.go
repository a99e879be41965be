package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/recipedium/backend/internal/middleware"
	"github.com/recipedium/backend/internal/service"
	"github.com/recipedium/backend/internal/types"
)

// AuthHandler serves registration, login and the current-user endpoint.
type AuthHandler struct {
	authService *service.AuthService
	log         *logrus.Logger
	development bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, log *logrus.Logger, development bool) *AuthHandler {
	return &AuthHandler{authService: authService, log: log, development: development}
}

// RegisterRoutes registers the auth routes.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/me", middleware.RequireAuth(h.authService), h.Me)
	}
}

// Register creates an account and returns a token with the user.
func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, h.development, bindError(err))
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, h.development, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

// Login verifies credentials and returns a token with the user.
func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, h.development, bindError(err))
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, h.development, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Me returns the authenticated caller's user record.
func (h *AuthHandler) Me(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), callerID)
	if err != nil {
		respondError(c, h.log, h.development, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
