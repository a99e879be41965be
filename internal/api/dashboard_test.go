package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := performRequest(router, "GET", "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestHealthCheckReportsDatabaseOutage(t *testing.T) {
	router, db := setupTestRouter(t)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := performRequest(router, "GET", "/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "unhealthy")
}

func TestDashboardStats(t *testing.T) {
	router, db := setupTestRouter(t)
	_, userToken := createTestUser(t, db, "Alice", "alice@example.com")
	_, adminToken := createTestAdmin(t, db)

	id := createTestRecipe(t, router, userToken)
	require.Equal(t, http.StatusOK,
		performRequest(router, "POST", "/api/recipes/"+id+"/like", nil, userToken).Code)
	require.Equal(t, http.StatusCreated,
		performRequest(router, "POST", "/api/recipes/"+id+"/comments", map[string]interface{}{
			"text": "Stats fodder",
		}, userToken).Code)

	w := performRequest(router, "GET", "/api/admin/stats", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stats DashboardStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(2), stats.Users)
	assert.Equal(t, int64(1), stats.Recipes)
	assert.Equal(t, int64(1), stats.Likes)
	assert.Equal(t, int64(1), stats.Comments)
	assert.Equal(t, int64(1), stats.RecipesThisWeek)
}

func TestDashboardStatsAdminOnly(t *testing.T) {
	router, db := setupTestRouter(t)
	_, userToken := createTestUser(t, db, "Alice", "alice@example.com")

	w := performRequest(router, "GET", "/api/admin/stats", nil, userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = performRequest(router, "GET", "/api/admin/stats", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
