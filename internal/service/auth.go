package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/recipedium/backend/internal/models"
	"github.com/recipedium/backend/internal/types"
)

const tokenTTL = 24 * time.Hour

// AuthService issues and validates JWT credentials.
type AuthService struct {
	db        *gorm.DB
	jwtSecret string
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{db: db, jwtSecret: jwtSecret}
}

// Register creates a user and returns it with a signed token. Duplicate
// emails are a conflict; the unique index is the authority, not the
// pre-check.
func (s *AuthService) Register(ctx context.Context, req *types.RegisterRequest) (*models.User, string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", types.NewInternalError(err)
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Role:         models.RoleUser,
		Active:       true,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", types.NewConflictError("User already exists")
		}
		return nil, "", types.NewInternalError(err)
	}

	token, err := s.generateToken(&user)
	if err != nil {
		return nil, "", types.NewInternalError(err)
	}
	return &user, token, nil
}

// Login verifies credentials and returns the user with a signed token.
// Unknown email, wrong password, and a deactivated account all produce the
// same error so the response does not reveal which one failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, "", types.NewCredentialsError("Invalid credentials")
	}

	if !user.Active {
		return nil, "", types.NewCredentialsError("Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", types.NewCredentialsError("Invalid credentials")
	}

	token, err := s.generateToken(&user)
	if err != nil {
		return nil, "", types.NewInternalError(err)
	}
	return &user, token, nil
}

// GetUser loads a user by id, excluding deactivated accounts from nothing:
// profiles of banned users stay readable, they just cannot authenticate.
func (s *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, types.NewNotFoundError("User")
	}
	return &user, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses and verifies a token, then re-resolves the user. A
// token whose user no longer exists or has been deactivated is invalid.
func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, errors.New("user no longer exists")
	}
	if !user.Active {
		return nil, errors.New("user is deactivated")
	}

	return &types.TokenClaims{
		UserID: user.ID,
		Role:   user.Role,
		Name:   user.Name,
	}, nil
}
