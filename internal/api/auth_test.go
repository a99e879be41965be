package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := performRequest(router, "POST", "/api/auth/register", map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "password123",
	}, "")

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string                 `json:"token"`
		User  map[string]interface{} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Alice", resp.User["name"])
	assert.Equal(t, "alice@example.com", resp.User["email"])
	assert.Equal(t, "user", resp.User["role"])
	assert.Equal(t, true, resp.User["active"])

	// The password must never appear in a response, hashed or otherwise.
	assert.NotContains(t, w.Body.String(), "password")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	router, db := setupTestRouter(t)
	createTestUser(t, db, "Alice", "alice@example.com")

	w := performRequest(router, "POST", "/api/auth/register", map[string]string{
		"name":     "Impostor",
		"email":    "alice@example.com",
		"password": "password123",
	}, "")

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "User already exists")
}

func TestRegisterValidation(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := performRequest(router, "POST", "/api/auth/register", map[string]string{
		"email":    "not-an-email",
		"password": "short",
	}, "")

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// Every invalid field is reported in one response.
	assert.Contains(t, resp.Errors, "name")
	assert.Contains(t, resp.Errors, "email")
	assert.Contains(t, resp.Errors, "password")
}

func TestLogin(t *testing.T) {
	router, db := setupTestRouter(t)
	createTestUser(t, db, "Alice", "alice@example.com")

	w := performRequest(router, "POST", "/api/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "password123",
	}, "")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string                 `json:"token"`
		User  map[string]interface{} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice@example.com", resp.User["email"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router, db := setupTestRouter(t)
	createTestUser(t, db, "Alice", "alice@example.com")

	tests := []struct {
		name  string
		email string
		pass  string
	}{
		{"wrong password", "alice@example.com", "wrong-password"},
		{"unknown email", "nobody@example.com", "password123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(router, "POST", "/api/auth/login", map[string]string{
				"email":    tt.email,
				"password": tt.pass,
			}, "")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "Invalid credentials")
		})
	}
}

func TestLoginRejectsDeactivatedUser(t *testing.T) {
	router, db := setupTestRouter(t)
	user, _ := createTestUser(t, db, "Alice", "alice@example.com")
	require.NoError(t, db.Model(user).Update("active", false).Error)

	w := performRequest(router, "POST", "/api/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "password123",
	}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
}

func TestMe(t *testing.T) {
	router, db := setupTestRouter(t)
	user, token := createTestUser(t, db, "Alice", "alice@example.com")

	w := performRequest(router, "GET", "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		User map[string]interface{} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, user.ID.String(), resp.User["id"])
	assert.Equal(t, "Alice", resp.User["name"])
}

func TestMeRequiresToken(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := performRequest(router, "GET", "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = performRequest(router, "GET", "/api/auth/me", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTokenInvalidAfterDeactivation(t *testing.T) {
	router, db := setupTestRouter(t)
	user, token := createTestUser(t, db, "Alice", "alice@example.com")

	w := performRequest(router, "GET", "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, db.Model(user).Update("active", false).Error)

	w = performRequest(router, "GET", "/api/auth/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
