package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/recipedium/backend/internal/database"
	"github.com/recipedium/backend/internal/models"
	"github.com/recipedium/backend/internal/types"
)

const testSecret = "unit-test-secret"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestRegisterHashesPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testSecret)

	user, token, err := svc.Register(context.Background(), &types.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, token)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.True(t, user.Active)
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testSecret)

	req := &types.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "password123"}
	_, _, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), req)
	require.Error(t, err)

	var appErr *types.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, types.CodeConflict, appErr.Code)
}

func TestValidateToken(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testSecret)

	user, token, err := svc.Register(context.Background(), &types.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.Equal(t, "Alice", claims.Name)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testSecret)

	_, token, err := svc.Register(context.Background(), &types.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	other := NewAuthService(db, "a-different-secret")
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testSecret)

	user, _, err := svc.Register(context.Background(), &types.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"iat":     time.Now().Add(-48 * time.Hour).Unix(),
		"exp":     time.Now().Add(-24 * time.Hour).Unix(),
	})
	token, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsDeactivatedUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testSecret)

	user, token, err := svc.Register(context.Background(), &types.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	require.NoError(t, db.Model(user).Update("active", false).Error)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestLoginWrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testSecret)

	_, _, err := svc.Register(context.Background(), &types.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, _, errWrongPass := svc.Login(context.Background(), "alice@example.com", "nope")
	_, _, errUnknown := svc.Login(context.Background(), "nobody@example.com", "password123")

	require.Error(t, errWrongPass)
	require.Error(t, errUnknown)
	assert.Equal(t, errWrongPass.Error(), errUnknown.Error())

	// Both failures carry the credentials code that maps onto 400.
	var appErr *types.AppError
	require.ErrorAs(t, errWrongPass, &appErr)
	assert.Equal(t, types.CodeCredentials, appErr.Code)
	require.ErrorAs(t, errUnknown, &appErr)
	assert.Equal(t, types.CodeCredentials, appErr.Code)
}
