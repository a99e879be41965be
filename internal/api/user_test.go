package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListUsersAdminOnly(t *testing.T) {
	router, db := setupTestRouter(t)
	_, userToken := createTestUser(t, db, "Alice", "alice@example.com")
	_, adminToken := createTestAdmin(t, db)

	w := performRequest(router, "GET", "/api/users", nil, userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = performRequest(router, "GET", "/api/users", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = performRequest(router, "GET", "/api/users", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Count int                      `json:"count"`
		Users []map[string]interface{} `json:"users"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestGetUser(t *testing.T) {
	router, db := setupTestRouter(t)
	alice, _ := createTestUser(t, db, "Alice", "alice@example.com")
	_, bobToken := createTestUser(t, db, "Bob", "bob@example.com")

	// Any authenticated user can read a profile.
	w := performRequest(router, "GET", "/api/users/"+alice.ID.String(), nil, bobToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		User map[string]interface{} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Alice", resp.User["name"])

	w = performRequest(router, "GET", "/api/users/not-a-uuid", nil, bobToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateUserSelf(t *testing.T) {
	router, db := setupTestRouter(t)
	alice, token := createTestUser(t, db, "Alice", "alice@example.com")

	w := performRequest(router, "PUT", "/api/users/"+alice.ID.String(), map[string]interface{}{
		"name": "Alice Cooper",
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		User map[string]interface{} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Alice Cooper", resp.User["name"])
	assert.Equal(t, "alice@example.com", resp.User["email"])
}

func TestUpdateUserForbiddenForOthers(t *testing.T) {
	router, db := setupTestRouter(t)
	alice, _ := createTestUser(t, db, "Alice", "alice@example.com")
	_, bobToken := createTestUser(t, db, "Bob", "bob@example.com")

	w := performRequest(router, "PUT", "/api/users/"+alice.ID.String(), map[string]interface{}{
		"name": "Renamed",
	}, bobToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateUserRoleEscalationForbidden(t *testing.T) {
	router, db := setupTestRouter(t)
	alice, token := createTestUser(t, db, "Alice", "alice@example.com")

	// A user cannot change their own role or active flag.
	w := performRequest(router, "PUT", "/api/users/"+alice.ID.String(), map[string]interface{}{
		"role": "admin",
	}, token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = performRequest(router, "PUT", "/api/users/"+alice.ID.String(), map[string]interface{}{
		"active": true,
	}, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateUserRoleByAdmin(t *testing.T) {
	router, db := setupTestRouter(t)
	alice, _ := createTestUser(t, db, "Alice", "alice@example.com")
	_, adminToken := createTestAdmin(t, db)

	w := performRequest(router, "PUT", "/api/users/"+alice.ID.String(), map[string]interface{}{
		"role": "admin",
	}, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		User map[string]interface{} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "admin", resp.User["role"])

	w = performRequest(router, "PUT", "/api/users/"+alice.ID.String(), map[string]interface{}{
		"role": "superuser",
	}, adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateUserDuplicateEmail(t *testing.T) {
	router, db := setupTestRouter(t)
	createTestUser(t, db, "Alice", "alice@example.com")
	bob, bobToken := createTestUser(t, db, "Bob", "bob@example.com")

	w := performRequest(router, "PUT", "/api/users/"+bob.ID.String(), map[string]interface{}{
		"email": "alice@example.com",
	}, bobToken)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email already in use")
}

func TestDeactivateUser(t *testing.T) {
	router, db := setupTestRouter(t)
	alice, aliceToken := createTestUser(t, db, "Alice", "alice@example.com")
	_, adminToken := createTestAdmin(t, db)

	// Non-admins cannot ban.
	w := performRequest(router, "DELETE", "/api/users/"+alice.ID.String(), nil, aliceToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = performRequest(router, "DELETE", "/api/users/"+alice.ID.String(), nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success bool                   `json:"success"`
		User    map[string]interface{} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, false, resp.User["active"])

	// A banned user can no longer authenticate, but their profile remains.
	w = performRequest(router, "GET", "/api/auth/me", nil, aliceToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = performRequest(router, "GET", "/api/users/"+alice.ID.String(), nil, adminToken)
	assert.Equal(t, http.StatusOK, w.Code)
}
