package main

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/recipedium/backend/config"
	"github.com/recipedium/backend/internal/database"
	"github.com/recipedium/backend/internal/models"
)

// Seeds a small set of demo accounts and recipes for local development.

var seedUsers = []struct {
	Name     string
	Email    string
	Password string
	Role     string
}{
	{"Admin", "admin@recipedium.dev", "admin-password", models.RoleAdmin},
	{"Alice Baker", "alice@recipedium.dev", "password1", models.RoleUser},
	{"Bob Cook", "bob@recipedium.dev", "password2", models.RoleUser},
}

var seedRecipes = []models.Recipe{
	{
		Title:        "Classic Tomato Soup",
		Description:  "A simple weeknight tomato soup.",
		Ingredients:  models.JSONBStringArray{"2 lbs tomatoes", "1 onion", "2 cups vegetable stock", "olive oil", "salt"},
		Instructions: models.JSONBStringArray{"Roast the tomatoes and onion", "Simmer with stock for 20 minutes", "Blend until smooth"},
		CookingTime:  40,
		Servings:     4,
		Difficulty:   "easy",
		Category:     "dinner",
		Diet:         models.JSONBStringArray{"vegetarian", "vegan"},
	},
	{
		Title:        "Blueberry Pancakes",
		Description:  "Fluffy pancakes with fresh blueberries.",
		Ingredients:  models.JSONBStringArray{"2 cups flour", "2 eggs", "1 cup milk", "1 cup blueberries", "baking powder"},
		Instructions: models.JSONBStringArray{"Whisk the dry ingredients", "Fold in eggs, milk and blueberries", "Cook on a hot griddle"},
		CookingTime:  25,
		Servings:     4,
		Difficulty:   "easy",
		Category:     "breakfast",
		Diet:         models.JSONBStringArray{"vegetarian"},
	},
	{
		Title:        "Beef Bourguignon",
		Description:  "Slow-braised beef in red wine.",
		Ingredients:  models.JSONBStringArray{"3 lbs beef chuck", "1 bottle red wine", "carrots", "pearl onions", "mushrooms", "bacon"},
		Instructions: models.JSONBStringArray{"Brown the beef and bacon", "Deglaze with wine", "Braise for 3 hours", "Add vegetables for the last hour"},
		CookingTime:  240,
		Servings:     6,
		Difficulty:   "hard",
		Category:     "dinner",
	},
}

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	db, err := database.New(cfg, logger)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatalf("migrate database: %v", err)
	}

	users := make([]models.User, 0, len(seedUsers))
	for _, u := range seedUsers {
		var existing models.User
		if err := db.Where("email = ?", u.Email).First(&existing).Error; err == nil {
			logger.Infof("user %s already exists, skipping", u.Email)
			users = append(users, existing)
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Fatalf("hash password: %v", err)
		}
		user := models.User{
			Name:         u.Name,
			Email:        u.Email,
			PasswordHash: string(hash),
			Role:         u.Role,
			Active:       true,
		}
		if err := db.Create(&user).Error; err != nil {
			logger.Fatalf("create user %s: %v", u.Email, err)
		}
		logger.Infof("created user %s (%s)", u.Email, u.Role)
		users = append(users, user)
	}

	for i, recipe := range seedRecipes {
		var existing models.Recipe
		if err := db.Where("title = ?", recipe.Title).First(&existing).Error; err == nil {
			logger.Infof("recipe %q already exists, skipping", recipe.Title)
			continue
		}

		// Round-robin ownership over the non-admin accounts.
		recipe.UserID = users[1+i%(len(users)-1)].ID
		if err := db.Create(&recipe).Error; err != nil {
			logger.Fatalf("create recipe %q: %v", recipe.Title, err)
		}
		logger.Infof("created recipe %q", recipe.Title)
	}

	logger.Info("seed complete")
}
