package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/recipedium/backend/config"
	"github.com/recipedium/backend/internal/database"
	"github.com/recipedium/backend/internal/models"
	"github.com/recipedium/backend/internal/service"
	"github.com/recipedium/backend/internal/types"
)

const testJWTSecret = "test-jwt-secret"

// setupTestDB opens a per-test in-memory sqlite database with the full
// schema applied.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupTestRouter builds a router with all routes registered against a
// fresh test database. Redis and S3 stay unconfigured.
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := setupTestDB(t)

	cfg := &config.Config{Env: "test"}
	cfg.JWT.Secret = testJWTSecret

	log := logrus.New()
	log.SetOutput(io.Discard)

	router := gin.New()
	RegisterRoutes(router, db, cfg, log, nil, nil)

	return router, db
}

// createTestUser registers a user through the auth service and returns it
// with a valid token.
func createTestUser(t *testing.T, db *gorm.DB, name, email string) (*models.User, string) {
	t.Helper()

	authService := service.NewAuthService(db, testJWTSecret)
	user, token, err := authService.Register(context.Background(), &types.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user, token
}

// createTestAdmin registers a user and promotes it. Tokens stay valid
// because validation re-resolves the role from the database.
func createTestAdmin(t *testing.T, db *gorm.DB) (*models.User, string) {
	t.Helper()

	user, token := createTestUser(t, db, "Admin", "admin@example.com")
	if err := db.Model(user).Update("role", models.RoleAdmin).Error; err != nil {
		t.Fatalf("failed to promote test admin: %v", err)
	}
	user.Role = models.RoleAdmin
	return user, token
}

// performRequest executes one request against the router. body may be nil.
func performRequest(router *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// validRecipePayload returns a payload that passes recipe validation.
func validRecipePayload() map[string]interface{} {
	return map[string]interface{}{
		"title":        "Soup",
		"description":  "A simple soup",
		"ingredients":  []string{"Water"},
		"instructions": []string{"Boil"},
		"cooking_time": 15,
		"servings":     2,
		"difficulty":   "easy",
		"category":     "dinner",
		"diet":         []string{"vegan"},
	}
}

// createTestRecipe creates a recipe through the API as the given user and
// returns its id.
func createTestRecipe(t *testing.T, router *gin.Engine, token string) string {
	t.Helper()

	w := performRequest(router, "POST", "/api/recipes", validRecipePayload(), token)
	if w.Code != 201 {
		t.Fatalf("failed to create test recipe: status %d, body %s", w.Code, w.Body.String())
	}

	var recipe map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &recipe); err != nil {
		t.Fatalf("failed to decode recipe response: %v", err)
	}
	return recipe["id"].(string)
}
