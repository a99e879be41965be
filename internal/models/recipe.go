package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultImageURL is used when a recipe is created without an image.
const DefaultImageURL = "https://recipedium.s3.amazonaws.com/default-recipe.jpg"

// Difficulty levels accepted on a recipe. Input is lowercased before
// validation, so "Easy" and "EASY" are accepted variants.
var Difficulties = []string{"easy", "medium", "hard"}

// Categories are the accepted meal types, also matched case-insensitively.
var Categories = []string{
	"breakfast", "lunch", "dinner", "dessert", "snack", "appetizer", "beverage",
}

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

type Recipe struct {
	ID           uuid.UUID        `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`
	Title        string           `gorm:"size:100;not null" json:"title"`
	Description  string           `gorm:"type:text" json:"description"`
	Ingredients  JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Instructions JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"instructions"`
	CookingTime  int              `gorm:"not null;default:30" json:"cooking_time"`
	Servings     int              `gorm:"not null;default:4" json:"servings"`
	Difficulty   string           `gorm:"size:20;not null;default:'medium'" json:"difficulty"`
	Category     string           `gorm:"size:50;not null" json:"category"`
	Diet         JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"diet"`
	ImageURL     string           `gorm:"size:255" json:"image_url"`
	UserID       uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	User         *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Likes    []RecipeLike    `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"likes,omitempty"`
	Comments []RecipeComment `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`

	// Derived from the like/comment tables, never stored.
	LikesCount    int64 `gorm:"-" json:"likes_count"`
	CommentsCount int64 `gorm:"-" json:"comments_count"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.ImageURL == "" {
		r.ImageURL = DefaultImageURL
	}
	return nil
}

// RecipeLike is one user's like on a recipe. The composite unique index makes
// the like idempotency check atomic: a second like by the same user fails the
// insert instead of racing a read-then-write.
type RecipeLike struct {
	ID        uuid.UUID `gorm:"type:uuid;primarykey" json:"-"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_user_like" json:"recipe_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_user_like" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *RecipeLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// RecipeComment is a comment on a recipe, listed most-recent-first.
type RecipeComment struct {
	ID        uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	Rating    int       `gorm:"not null;default:5;check:rating >= 1 AND rating <= 5" json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *RecipeComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
