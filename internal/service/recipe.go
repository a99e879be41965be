package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipedium/backend/internal/models"
	"github.com/recipedium/backend/internal/types"
)

// RecipeService handles recipe mutations: create, update, delete, likes and
// comments. Listing lives in query.go.
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance.
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// parseRecipeID folds malformed ids into NotFound rather than a separate
// error class.
func parseRecipeID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, types.NewNotFoundError("Recipe")
	}
	return parsed, nil
}

// validateRecipe normalizes enum fields in place and returns one message per
// invalid field, so a single response lists everything the client must fix.
func validateRecipe(r *models.Recipe) map[string]string {
	fields := make(map[string]string)

	r.Difficulty = strings.ToLower(strings.TrimSpace(r.Difficulty))
	r.Category = strings.ToLower(strings.TrimSpace(r.Category))

	if strings.TrimSpace(r.Title) == "" {
		fields["title"] = "Title is required"
	} else if utf8.RuneCountInString(r.Title) > 100 {
		fields["title"] = "Title cannot be longer than 100 characters"
	}

	if len(r.Ingredients) == 0 {
		fields["ingredients"] = "At least one ingredient is required"
	}
	if len(r.Instructions) == 0 {
		fields["instructions"] = "At least one instruction is required"
	}

	if r.CookingTime <= 0 {
		fields["cooking_time"] = "Cooking time must be a positive number of minutes"
	}
	if r.Servings <= 0 {
		fields["servings"] = "Servings must be a positive number"
	}

	if !contains(models.Difficulties, r.Difficulty) {
		fields["difficulty"] = fmt.Sprintf("Difficulty must be one of: %s", strings.Join(models.Difficulties, ", "))
	}
	if !contains(models.Categories, r.Category) {
		fields["category"] = fmt.Sprintf("Category must be one of: %s", strings.Join(models.Categories, ", "))
	}

	return fields
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Create validates and stores a new recipe. The owner is always the caller;
// any owner supplied in the payload never reaches this point.
func (s *RecipeService) Create(ctx context.Context, callerID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	recipe := models.Recipe{
		Title:        req.Title,
		Description:  req.Description,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		CookingTime:  30,
		Servings:     4,
		Difficulty:   req.Difficulty,
		Category:     req.Category,
		Diet:         req.Diet,
		ImageURL:     req.ImageURL,
		UserID:       callerID,
	}
	if req.CookingTime != nil {
		recipe.CookingTime = *req.CookingTime
	}
	if req.Servings != nil {
		recipe.Servings = *req.Servings
	}
	if recipe.Difficulty == "" {
		recipe.Difficulty = "medium"
	}
	if recipe.Diet == nil {
		recipe.Diet = models.JSONBStringArray{}
	}

	if fields := validateRecipe(&recipe); len(fields) > 0 {
		return nil, types.NewValidationError(fields)
	}

	if err := s.db.WithContext(ctx).Create(&recipe).Error; err != nil {
		return nil, types.NewInternalError(err)
	}
	return s.Get(ctx, recipe.ID.String())
}

// Get loads a recipe with its owner, likes and comments (most recent first).
func (s *RecipeService) Get(ctx context.Context, id string) (*models.Recipe, error) {
	recipeID, err := parseRecipeID(id)
	if err != nil {
		return nil, err
	}

	var recipe models.Recipe
	err = s.db.WithContext(ctx).
		Preload("User").
		Preload("Likes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Comments.User").
		First(&recipe, "id = ?", recipeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewNotFoundError("Recipe")
		}
		return nil, types.NewInternalError(err)
	}

	recipe.LikesCount = int64(len(recipe.Likes))
	recipe.CommentsCount = int64(len(recipe.Comments))
	return &recipe, nil
}

// Update merges the supplied fields into the stored recipe, re-validates the
// result, and saves it. Only the owner or an admin may update.
func (s *RecipeService) Update(ctx context.Context, callerID uuid.UUID, callerRole, id string, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	recipeID, err := parseRecipeID(id)
	if err != nil {
		return nil, err
	}

	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return nil, types.NewNotFoundError("Recipe")
	}

	if !CanModify(callerID, callerRole, recipe.UserID) {
		return nil, types.NewAuthorizationError("Not authorized to update this recipe")
	}

	if req.Title != nil {
		recipe.Title = *req.Title
	}
	if req.Description != nil {
		recipe.Description = *req.Description
	}
	if req.Ingredients != nil {
		recipe.Ingredients = *req.Ingredients
	}
	if req.Instructions != nil {
		recipe.Instructions = *req.Instructions
	}
	if req.CookingTime != nil {
		recipe.CookingTime = *req.CookingTime
	}
	if req.Servings != nil {
		recipe.Servings = *req.Servings
	}
	if req.Difficulty != nil {
		recipe.Difficulty = *req.Difficulty
	}
	if req.Category != nil {
		recipe.Category = *req.Category
	}
	if req.Diet != nil {
		recipe.Diet = *req.Diet
	}
	if req.ImageURL != nil {
		recipe.ImageURL = *req.ImageURL
	}

	if fields := validateRecipe(&recipe); len(fields) > 0 {
		return nil, types.NewValidationError(fields)
	}

	if err := s.db.WithContext(ctx).Save(&recipe).Error; err != nil {
		return nil, types.NewInternalError(err)
	}
	return s.Get(ctx, recipe.ID.String())
}

// Delete removes a recipe together with its likes and comments. Only the
// owner or an admin may delete.
func (s *RecipeService) Delete(ctx context.Context, callerID uuid.UUID, callerRole, id string) error {
	recipeID, err := parseRecipeID(id)
	if err != nil {
		return err
	}

	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return types.NewNotFoundError("Recipe")
	}

	if !CanModify(callerID, callerRole, recipe.UserID) {
		return types.NewAuthorizationError("Not authorized to delete this recipe")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
	if err != nil {
		return types.NewInternalError(err)
	}
	return nil
}

// Like records the caller's like. A duplicate like is an error by product
// rule, not a silent no-op; the composite unique index makes the check
// atomic under concurrent attempts by the same user.
func (s *RecipeService) Like(ctx context.Context, callerID uuid.UUID, id string) (*models.Recipe, error) {
	recipeID, err := parseRecipeID(id)
	if err != nil {
		return nil, err
	}

	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return nil, types.NewNotFoundError("Recipe")
	}

	like := models.RecipeLike{RecipeID: recipeID, UserID: callerID}
	if err := s.db.WithContext(ctx).Create(&like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, types.NewConflictError("Recipe already liked")
		}
		return nil, types.NewInternalError(err)
	}

	return s.Get(ctx, id)
}

// Unlike removes exactly the caller's like entry.
func (s *RecipeService) Unlike(ctx context.Context, callerID uuid.UUID, id string) (*models.Recipe, error) {
	recipeID, err := parseRecipeID(id)
	if err != nil {
		return nil, err
	}

	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return nil, types.NewNotFoundError("Recipe")
	}

	result := s.db.WithContext(ctx).
		Where("recipe_id = ? AND user_id = ?", recipeID, callerID).
		Delete(&models.RecipeLike{})
	if result.Error != nil {
		return nil, types.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, types.NewConflictError("Recipe has not been liked yet")
	}

	return s.Get(ctx, id)
}

// AddComment stores a comment with the caller as author. Rating defaults to
// 5 when omitted.
func (s *RecipeService) AddComment(ctx context.Context, callerID uuid.UUID, id string, req *types.CreateCommentRequest) (*models.Recipe, error) {
	recipeID, err := parseRecipeID(id)
	if err != nil {
		return nil, err
	}

	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return nil, types.NewNotFoundError("Recipe")
	}

	fields := make(map[string]string)
	if strings.TrimSpace(req.Text) == "" {
		fields["text"] = "Comment text is required"
	}
	rating := 5
	if req.Rating != nil {
		rating = *req.Rating
		if rating < 1 || rating > 5 {
			fields["rating"] = "Rating must be between 1 and 5"
		}
	}
	if len(fields) > 0 {
		return nil, types.NewValidationError(fields)
	}

	comment := models.RecipeComment{
		RecipeID: recipeID,
		UserID:   callerID,
		Text:     req.Text,
		Rating:   rating,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, types.NewInternalError(err)
	}

	return s.Get(ctx, id)
}

// DeleteComment removes one comment. Allowed callers: the comment's author,
// the recipe's owner, or an admin. An unknown comment id on an existing
// recipe is a comment-level NotFound, distinct from the recipe-level one.
func (s *RecipeService) DeleteComment(ctx context.Context, callerID uuid.UUID, callerRole, id, commentID string) (*models.Recipe, error) {
	recipeID, err := parseRecipeID(id)
	if err != nil {
		return nil, err
	}

	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return nil, types.NewNotFoundError("Recipe")
	}

	parsedCommentID, err := uuid.Parse(commentID)
	if err != nil {
		return nil, types.NewNotFoundError("Comment")
	}

	var comment models.RecipeComment
	err = s.db.WithContext(ctx).
		First(&comment, "id = ? AND recipe_id = ?", parsedCommentID, recipeID).Error
	if err != nil {
		return nil, types.NewNotFoundError("Comment")
	}

	if !CanModify(callerID, callerRole, comment.UserID, recipe.UserID) {
		return nil, types.NewAuthorizationError("Not authorized to delete this comment")
	}

	if err := s.db.WithContext(ctx).Delete(&comment).Error; err != nil {
		return nil, types.NewInternalError(err)
	}

	return s.Get(ctx, id)
}
