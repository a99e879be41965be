package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipedium/backend/internal/models"
	"github.com/recipedium/backend/internal/types"
)

// UserService handles user reads and admin/self mutations. Users are never
// hard-deleted: banning deactivates the account.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new UserService instance.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Get loads a user by id. A malformed id is a NotFound, not a separate
// error class.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, types.NewNotFoundError("User")
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, types.NewNotFoundError("User")
	}
	return &user, nil
}

// List returns all users, newest first. Admin only; the route gate enforces
// the role.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, types.NewInternalError(err)
	}
	return users, nil
}

// Update merges the supplied fields into the user. The caller must be the
// user themselves or an admin; role and active changes are admin-only.
func (s *UserService) Update(ctx context.Context, callerID uuid.UUID, callerRole, id string, req *types.UpdateUserRequest) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanModify(callerID, callerRole, user.ID) {
		return nil, types.NewAuthorizationError("Not authorized to update this user")
	}

	if (req.Role != nil || req.Active != nil) && callerRole != models.RoleAdmin {
		return nil, types.NewAuthorizationError("Only admins may change roles or account status")
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		if *req.Role != models.RoleUser && *req.Role != models.RoleAdmin {
			return nil, types.NewValidationError(map[string]string{"role": "Role must be user or admin"})
		}
		user.Role = *req.Role
	}
	if req.Active != nil {
		user.Active = *req.Active
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, types.NewConflictError("Email already in use")
		}
		return nil, types.NewInternalError(err)
	}
	return user, nil
}

// Deactivate bans a user by flipping the active flag; their recipes and
// comments remain.
func (s *UserService) Deactivate(ctx context.Context, id string) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Active = false
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, types.NewInternalError(err)
	}
	return user, nil
}
