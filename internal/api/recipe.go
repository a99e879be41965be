package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/recipedium/backend/internal/middleware"
	"github.com/recipedium/backend/internal/service"
	"github.com/recipedium/backend/internal/types"
)

// RecipeHandler serves the recipe CRUD, like/comment, listing and image
// upload endpoints.
type RecipeHandler struct {
	recipeService *service.RecipeService
	authService   *service.AuthService
	imageService  *service.ImageService
	createLimiter *middleware.RateLimiter
	log           *logrus.Logger
	development   bool
}

// NewRecipeHandler creates a new RecipeHandler. imageService and
// createLimiter may be nil; the affected routes degrade gracefully.
func NewRecipeHandler(
	recipeService *service.RecipeService,
	authService *service.AuthService,
	imageService *service.ImageService,
	createLimiter *middleware.RateLimiter,
	log *logrus.Logger,
	development bool,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		authService:   authService,
		imageService:  imageService,
		createLimiter: createLimiter,
		log:           log,
		development:   development,
	}
}

// RegisterRoutes registers the recipe routes. Reads are public; mutations
// go through the auth gate.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	authRequired := middleware.RequireAuth(h.authService)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/user/:userId", h.ListByUser)
		recipes.GET("/:id", h.GetRecipe)
		recipes.GET("/:id/image", h.GetImage)

		create := []gin.HandlerFunc{authRequired}
		if h.createLimiter != nil {
			create = append(create, h.createLimiter.Middleware())
		}
		recipes.POST("", append(create, h.CreateRecipe)...)

		recipes.PUT("/:id", authRequired, h.UpdateRecipe)
		recipes.DELETE("/:id", authRequired, h.DeleteRecipe)
		recipes.POST("/:id/like", authRequired, h.LikeRecipe)
		recipes.DELETE("/:id/like", authRequired, h.UnlikeRecipe)
		recipes.POST("/:id/comments", authRequired, h.AddComment)
		recipes.DELETE("/:id/comments/:commentId", authRequired, h.DeleteComment)
		recipes.POST("/:id/image", authRequired, h.UploadImage)
	}
}

// ListRecipes returns one page of recipes with filter/sort/select support.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, err := h.recipeService.ListRecipes(c.Request.Context(), c.Request.URL.Query(), nil)
	if err != nil {
		respondError(c, h.log, h.development, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":      page.Count,
		"total":      page.Total,
		"pagination": page.Pagination,
		"recipes":    page.Recipes,
	})
}

// ListByUser returns one page of a single user's recipes.
func (h *RecipeHandler) ListByUser(c *gin.Context) {
	page, err := h.recipeService.ListByUser(c.Request.Context(), c.Param("userId"), c.Request.URL.Query())
	if err != nil {
		respondError(c, h.log, h.development, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"count":      page.Count,
		"total":      page.Total,
		"pagination": page.Pagination,
		"data":       page.Recipes,
	})
}

// GetRecipe returns one recipe with owner, likes and comments resolved.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, err := h.recipeService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, h.development, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// CreateRecipe creates a recipe owned by the caller.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, h.development, bindError(err))
		return
	}

	recipe, err := h.recipeService.Create(c.Request.Context(), callerID, &req)
	if err != nil {
		respondError(c, h.log, h.development, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

// UpdateRecipe merges the supplied fields into an existing recipe.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, h.development, bindError(err))
		return
	}

	recipe, err := h.recipeService.Update(c.Request.Context(), callerID, middleware.CallerRole(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.log, h.development, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// DeleteRecipe removes a recipe with its likes and comments.
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), callerID, middleware.CallerRole(c), c.Param("id")); err != nil {
		respondError(c, h.log, h.development, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Recipe deleted successfully"})
}

// LikeRecipe records the caller's like; liking twice is an error.
func (h *RecipeHandler) LikeRecipe(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipe, err := h.recipeService.Like(c.Request.Context(), callerID, c.Param("id"))
	if err != nil {
		respondError(c, h.log, h.development, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// UnlikeRecipe removes the caller's like.
func (h *RecipeHandler) UnlikeRecipe(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipe, err := h.recipeService.Unlike(c.Request.Context(), callerID, c.Param("id"))
	if err != nil {
		respondError(c, h.log, h.development, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// AddComment adds a comment authored by the caller.
func (h *RecipeHandler) AddComment(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req types.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, h.development, bindError(err))
		return
	}

	recipe, err := h.recipeService.AddComment(c.Request.Context(), callerID, c.Param("id"), &req)
	if err != nil {
		respondError(c, h.log, h.development, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

// DeleteComment removes a comment; allowed for its author, the recipe
// owner, or an admin.
func (h *RecipeHandler) DeleteComment(c *gin.Context) {
	callerID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipe, err := h.recipeService.DeleteComment(
		c.Request.Context(), callerID, middleware.CallerRole(c), c.Param("id"), c.Param("commentId"))
	if err != nil {
		respondError(c, h.log, h.development, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

// GetImage returns a fetchable URL for the recipe's image. Images stored in
// the service's bucket are served as short-lived presigned URLs; without
// configured storage the stored URL passes through unchanged.
func (h *RecipeHandler) GetImage(c *gin.Context) {
	recipe, err := h.recipeService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, h.development, err)
		return
	}

	url := recipe.ImageURL
	if h.imageService != nil {
		url, err = h.imageService.DownloadURL(c.Request.Context(), recipe.ImageURL)
		if err != nil {
			respondError(c, h.log, h.development, types.NewInternalError(err))
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// UploadImage stores a new image for the recipe in S3 and updates the
// recipe's image URL. Owner or admin only.
func (h *RecipeHandler) UploadImage(c *gin.Context) {
	if h.imageService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage is not configured"})
		return
	}

	callerID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipe, err := h.recipeService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, h.development, err)
		return
	}
	if !service.CanModify(callerID, middleware.CallerRole(c), recipe.UserID) {
		respondError(c, h.log, h.development, types.NewAuthorizationError("Not authorized to update this recipe"))
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		respondError(c, h.log, h.development, types.NewValidationError(map[string]string{"image": "An image file is required"}))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, h.log, h.development, types.NewInternalError(err))
		return
	}
	defer file.Close()

	url, err := h.imageService.UploadRecipeImage(
		c.Request.Context(), recipe.ID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	if err != nil {
		respondError(c, h.log, h.development, types.NewInternalError(err))
		return
	}

	updated, err := h.recipeService.Update(
		c.Request.Context(), callerID, middleware.CallerRole(c), recipe.ID.String(),
		&types.UpdateRecipeRequest{ImageURL: &url})
	if err != nil {
		respondError(c, h.log, h.development, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}
