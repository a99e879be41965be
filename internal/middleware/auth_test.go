package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/recipedium/backend/internal/types"
)

type stubValidator struct {
	claims *types.TokenClaims
	err    error
}

func (s *stubValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	return s.claims, s.err
}

func authRequest(validator TokenValidator, header string, extra ...gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handlers := append([]gin.HandlerFunc{RequireAuth(validator)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": CallerRole(c)})
	})
	router.GET("/protected", handlers...)

	req := httptest.NewRequest("GET", "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuthMissingHeader(t *testing.T) {
	validator := &stubValidator{err: errors.New("should not be called")}

	w := authRequest(validator, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing authorization header")
}

func TestRequireAuthBadFormat(t *testing.T) {
	validator := &stubValidator{claims: &types.TokenClaims{}}

	for _, header := range []string{"token-without-scheme", "Basic abc123", "Bearer a b"} {
		w := authRequest(validator, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	validator := &stubValidator{err: errors.New("bad signature")}

	w := authRequest(validator, "Bearer whatever")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid or expired token")
}

func TestRequireAuthSetsIdentity(t *testing.T) {
	validator := &stubValidator{claims: &types.TokenClaims{
		UserID: uuid.New(),
		Role:   "user",
		Name:   "Alice",
	}}

	w := authRequest(validator, "Bearer valid")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"user"`)
}

func TestRequireRoles(t *testing.T) {
	admin := &stubValidator{claims: &types.TokenClaims{UserID: uuid.New(), Role: "admin"}}
	user := &stubValidator{claims: &types.TokenClaims{UserID: uuid.New(), Role: "user"}}

	w := authRequest(admin, "Bearer valid", RequireRoles("admin"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = authRequest(user, "Bearer valid", RequireRoles("admin"))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRolesWithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin", RequireRoles("admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest("GET", "/admin", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
