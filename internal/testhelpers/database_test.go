package testhelpers

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipedium/backend/internal/service"
	"github.com/recipedium/backend/internal/types"
)

// TestPostgresRoundTrip exercises the real postgres paths that the sqlite
// unit tests approximate: duplicate-key translation on the like index and
// the jsonb diet filter.
func TestPostgresRoundTrip(t *testing.T) {
	db := SetupTestDatabase(t)
	ctx := context.Background()

	authService := service.NewAuthService(db, "integration-test-secret")
	recipeService := service.NewRecipeService(db)

	user, _, err := authService.Register(ctx, &types.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	cookingTime := 45
	recipe, err := recipeService.Create(ctx, user.ID, &types.CreateRecipeRequest{
		Title:        "Integration Stew",
		Description:  "Cooked against a real database",
		Ingredients:  []string{"Beef", "Carrots"},
		Instructions: []string{"Simmer"},
		CookingTime:  &cookingTime,
		Category:     "dinner",
		Diet:         []string{"gluten-free"},
	})
	require.NoError(t, err)

	_, err = recipeService.Like(ctx, user.ID, recipe.ID.String())
	require.NoError(t, err)

	_, err = recipeService.Like(ctx, user.ID, recipe.ID.String())
	require.Error(t, err)
	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.CodeConflict, appErr.Code)

	page, err := recipeService.ListRecipes(ctx, url.Values{"diet": {"gluten-free"}}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, page.Count)
	assert.Equal(t, "Integration Stew", page.Recipes[0].Title)
	assert.Equal(t, int64(1), page.Recipes[0].LikesCount)

	page, err = recipeService.ListRecipes(ctx, url.Values{"diet": {"vegan"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Count)
}
