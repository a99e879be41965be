package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipedium/backend/internal/models"
	"github.com/recipedium/backend/internal/types"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// PageCursor points at an adjacent page; present in the response only when
// such a page exists.
type PageCursor struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Pagination carries the optional next/prev cursors.
type Pagination struct {
	Next *PageCursor `json:"next,omitempty"`
	Prev *PageCursor `json:"prev,omitempty"`
}

// RecipePage is one page of a recipe listing.
type RecipePage struct {
	Recipes    []models.Recipe
	Count      int
	Total      int64
	Pagination Pagination
}

// Query parameters reserved for pagination, sorting and selection; they are
// excluded from the filter set before filters are applied.
var reservedParams = map[string]bool{
	"page": true, "limit": true, "sort": true, "select": true,
	"q": true, "category": true, "diet": true,
}

// filterColumns whitelists filterable/sortable fields and maps both the JSON
// names and their camelCase variants onto columns.
var filterColumns = map[string]string{
	"title":        "title",
	"description":  "description",
	"difficulty":   "difficulty",
	"category":     "category",
	"cooking_time": "cooking_time",
	"cookingTime":  "cooking_time",
	"servings":     "servings",
	"created_at":   "created_at",
	"createdAt":    "created_at",
	"user_id":      "user_id",
	"userId":       "user_id",
}

var numericColumns = map[string]bool{
	"cooking_time": true,
	"servings":     true,
}

var rangeOperators = map[string]string{
	"gt":  ">",
	"gte": ">=",
	"lt":  "<",
	"lte": "<=",
}

// ListRecipes returns one page of recipes matching the query parameters.
// Listing is public; no auth gate applies. When ownerID is non-nil the
// results are restricted to that user's recipes.
func (s *RecipeService) ListRecipes(ctx context.Context, params url.Values, ownerID *uuid.UUID) (*RecipePage, error) {
	page := parsePositiveInt(params.Get("page"), 1)
	limit := parsePositiveInt(params.Get("limit"), defaultPageSize)
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := (page - 1) * limit

	applyFilters := func(db *gorm.DB) *gorm.DB {
		if ownerID != nil {
			db = db.Where("user_id = ?", *ownerID)
		}
		if q := params.Get("q"); q != "" {
			like := "%" + strings.ToLower(q) + "%"
			db = db.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
		}
		if category := params.Get("category"); category != "" {
			db = db.Where("category = ?", strings.ToLower(category))
		}
		if diet := params.Get("diet"); diet != "" {
			// Diet tags are stored as a JSON array; match the quoted tag.
			like := "%" + `"` + strings.ToLower(strings.TrimSpace(diet)) + `"` + "%"
			if s.db.Dialector.Name() == "postgres" {
				db = db.Where("LOWER(diet::text) LIKE ?", like)
			} else {
				db = db.Where("LOWER(diet) LIKE ?", like)
			}
		}
		return applyFieldFilters(db, params)
	}

	var total int64
	if err := applyFilters(s.db.WithContext(ctx).Model(&models.Recipe{})).Count(&total).Error; err != nil {
		return nil, types.NewInternalError(err)
	}

	query := applyFilters(s.db.WithContext(ctx).Model(&models.Recipe{}))
	query = applySort(query, params.Get("sort"))
	query = applySelect(query, params.Get("select"))

	var recipes []models.Recipe
	if err := query.Offset(offset).Limit(limit).Find(&recipes).Error; err != nil {
		return nil, types.NewInternalError(err)
	}

	if err := s.attachCounts(ctx, recipes); err != nil {
		return nil, err
	}

	result := &RecipePage{
		Recipes: recipes,
		Count:   len(recipes),
		Total:   total,
	}
	if int64(offset+limit) < total {
		result.Pagination.Next = &PageCursor{Page: page + 1, Limit: limit}
	}
	if page > 1 {
		result.Pagination.Prev = &PageCursor{Page: page - 1, Limit: limit}
	}
	return result, nil
}

// ListByUser restricts the listing to one owner, with the same pagination
// contract as the general listing.
func (s *RecipeService) ListByUser(ctx context.Context, userID string, params url.Values) (*RecipePage, error) {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return nil, types.NewNotFoundError("User")
	}
	return s.ListRecipes(ctx, params, &ownerID)
}

// applyFieldFilters handles equality and range filters on whitelisted
// columns, parsed from keys of the form field or field[op].
func applyFieldFilters(db *gorm.DB, params url.Values) *gorm.DB {
	for key, values := range params {
		if reservedParams[key] || len(values) == 0 {
			continue
		}
		value := values[0]

		field, op := key, ""
		if i := strings.IndexByte(key, '['); i > 0 && strings.HasSuffix(key, "]") {
			field = key[:i]
			op = key[i+1 : len(key)-1]
		}

		column, ok := filterColumns[field]
		if !ok {
			continue
		}

		switch {
		case op == "":
			db = db.Where(fmt.Sprintf("%s = ?", column), coerce(column, value))
		case op == "in":
			parts := strings.Split(value, ",")
			in := make([]interface{}, 0, len(parts))
			for _, p := range parts {
				in = append(in, coerce(column, strings.TrimSpace(p)))
			}
			db = db.Where(fmt.Sprintf("%s IN ?", column), in)
		default:
			if sqlOp, ok := rangeOperators[op]; ok {
				db = db.Where(fmt.Sprintf("%s %s ?", column, sqlOp), coerce(column, value))
			}
		}
	}
	return db
}

// coerce converts values for numeric columns so postgres does not reject a
// string-typed comparison.
func coerce(column, value string) interface{} {
	if numericColumns[column] {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return value
}

// applySort orders by the comma-separated sort fields, '-' prefix meaning
// descending. Defaults to newest first.
func applySort(db *gorm.DB, sort string) *gorm.DB {
	if sort == "" {
		return db.Order("created_at DESC")
	}
	ordered := false
	for _, field := range strings.Split(sort, ",") {
		field = strings.TrimSpace(field)
		desc := strings.HasPrefix(field, "-")
		field = strings.TrimPrefix(field, "-")
		column, ok := filterColumns[field]
		if !ok {
			continue
		}
		if desc {
			db = db.Order(column + " DESC")
		} else {
			db = db.Order(column)
		}
		ordered = true
	}
	if !ordered {
		return db.Order("created_at DESC")
	}
	return db
}

// applySelect restricts returned columns to a named subset; id and user_id
// are always included.
func applySelect(db *gorm.DB, selects string) *gorm.DB {
	if selects == "" {
		return db
	}
	columns := []string{"id", "user_id"}
	for _, field := range strings.Split(selects, ",") {
		if column, ok := filterColumns[strings.TrimSpace(field)]; ok {
			columns = append(columns, column)
		}
	}
	return db.Select(columns)
}

// attachCounts fills the derived like/comment counts with two grouped
// queries instead of one pair per recipe.
func (s *RecipeService) attachCounts(ctx context.Context, recipes []models.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
	}

	type countRow struct {
		RecipeID uuid.UUID
		N        int64
	}

	var likeCounts []countRow
	err := s.db.WithContext(ctx).Model(&models.RecipeLike{}).
		Select("recipe_id, COUNT(*) as n").
		Where("recipe_id IN ?", ids).
		Group("recipe_id").
		Scan(&likeCounts).Error
	if err != nil {
		return types.NewInternalError(err)
	}

	var commentCounts []countRow
	err = s.db.WithContext(ctx).Model(&models.RecipeComment{}).
		Select("recipe_id, COUNT(*) as n").
		Where("recipe_id IN ?", ids).
		Group("recipe_id").
		Scan(&commentCounts).Error
	if err != nil {
		return types.NewInternalError(err)
	}

	likes := make(map[uuid.UUID]int64, len(likeCounts))
	for _, row := range likeCounts {
		likes[row.RecipeID] = row.N
	}
	comments := make(map[uuid.UUID]int64, len(commentCounts))
	for _, row := range commentCounts {
		comments[row.RecipeID] = row.N
	}

	for i := range recipes {
		recipes[i].LikesCount = likes[recipes[i].ID]
		recipes[i].CommentsCount = comments[recipes[i].ID]
	}
	return nil
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
