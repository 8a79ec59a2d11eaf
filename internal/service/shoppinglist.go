package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const shoppingListCacheTTL = 10 * time.Minute

// ShoppingListItem is one merged output row: all cart entries referencing the
// same (name, unit) ingredient identity collapse into it.
type ShoppingListItem struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	TotalAmount     int64  `json:"total_amount"`
}

// ShoppingListService aggregates ingredient amounts across every recipe in a
// user's shopping cart.
type ShoppingListService struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewShoppingListService creates a new ShoppingListService instance. The redis
// client is optional; without it every call regenerates the document.
func NewShoppingListService(db *gorm.DB, redisClient *redis.Client) *ShoppingListService {
	return &ShoppingListService{db: db, redis: redisClient}
}

// Generate merges the ingredient entries of every recipe in the user's cart,
// grouped by (name, unit) identity with summed amounts, ordered by name
// (case-insensitive) and unit. Amounts are integers and the sum runs in the
// database, so the arithmetic is exact. An empty cart yields an empty slice,
// not an error.
func (s *ShoppingListService) Generate(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error) {
	items := []ShoppingListItem{}
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total_amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("LOWER(ingredients.name) ASC, ingredients.measurement_unit ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// RenderText renders the merged list as a flat text document, one ordinal line
// per ingredient.
func (s *ShoppingListService) RenderText(items []ShoppingListItem) string {
	var b strings.Builder
	b.WriteString("Foodgram shopping list:\n\n")

	if len(items) == 0 {
		b.WriteString("Your shopping list is empty.\n")
		return b.String()
	}

	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s (%s) — %d\n", i+1, item.Name, item.MeasurementUnit, item.TotalAmount)
	}
	return b.String()
}

// GenerateText returns the rendered shopping list, served from the per-user
// cache when fresh. Cache failures fall back to regeneration.
func (s *ShoppingListService) GenerateText(ctx context.Context, userID uuid.UUID) (string, error) {
	key := cacheKey(userID)
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, key).Result(); err == nil {
			return cached, nil
		} else if err != redis.Nil {
			log.Printf("shopping list cache read failed: %v", err)
		}
	}

	items, err := s.Generate(ctx, userID)
	if err != nil {
		return "", err
	}
	text := s.RenderText(items)

	if s.redis != nil {
		if err := s.redis.Set(ctx, key, text, shoppingListCacheTTL).Err(); err != nil {
			log.Printf("shopping list cache write failed: %v", err)
		}
	}
	return text, nil
}

// InvalidateCache drops the cached document for a user. Called whenever the
// user's cart changes.
func (s *ShoppingListService) InvalidateCache(ctx context.Context, userID uuid.UUID) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, cacheKey(userID)).Err(); err != nil {
		log.Printf("shopping list cache invalidation failed: %v", err)
	}
}

func cacheKey(userID uuid.UUID) string {
	return "shopping_list:" + userID.String()
}
