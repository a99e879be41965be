package database

import (
	"gorm.io/gorm"

	"github.com/recipedium/backend/internal/models"
)

// Migrate applies the schema for every model the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Recipe{},
		&models.RecipeLike{},
		&models.RecipeComment{},
	)
}
