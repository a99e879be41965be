package types

// RegisterRequest represents the request body for user registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents the request body for user login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateRecipeRequest represents the request body for creating a recipe.
// The owner is never taken from the payload; it comes from the caller's
// token. Field-level validation happens in the recipe service so every
// invalid field is reported at once.
type CreateRecipeRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	CookingTime  *int     `json:"cooking_time"`
	Servings     *int     `json:"servings"`
	Difficulty   string   `json:"difficulty"`
	Category     string   `json:"category"`
	Diet         []string `json:"diet"`
	ImageURL     string   `json:"image_url"`
}

// UpdateRecipeRequest represents a partial recipe update. Nil pointers mean
// the field was not supplied and keeps its stored value.
type UpdateRecipeRequest struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Ingredients  *[]string `json:"ingredients"`
	Instructions *[]string `json:"instructions"`
	CookingTime  *int      `json:"cooking_time"`
	Servings     *int      `json:"servings"`
	Difficulty   *string   `json:"difficulty"`
	Category     *string   `json:"category"`
	Diet         *[]string `json:"diet"`
	ImageURL     *string   `json:"image_url"`
}

// CreateCommentRequest represents the request body for commenting on a recipe
type CreateCommentRequest struct {
	Text   string `json:"text"`
	Rating *int   `json:"rating"`
}

// UpdateUserRequest represents a partial user update (self or admin). Role
// and Active changes are accepted from admins only.
type UpdateUserRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Role   *string `json:"role"`
	Active *bool   `json:"active"`
}
