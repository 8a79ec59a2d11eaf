package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// RecipeService handles recipe operations
type RecipeService struct {
	db        *gorm.DB
	favorites *RelationService[models.Favorite]
	carts     *RelationService[models.ShoppingCart]
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{
		db:        db,
		favorites: NewFavoriteService(db),
		carts:     NewShoppingCartService(db),
	}
}

// Caller identifies who is invoking an operation. Ownership and admin policy
// checks run against it; credential checks happened upstream.
type Caller struct {
	ID      uuid.UUID
	IsAdmin bool
}

// validateInput checks the field-level invariants shared by create and update.
func (s *RecipeService) validateInput(input *types.RecipeInput) error {
	if input.CookingTime < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidCookingTime, input.CookingTime)
	}
	if len(input.Ingredients) == 0 {
		return ErrNoIngredients
	}
	seen := make(map[uuid.UUID]struct{}, len(input.Ingredients))
	for _, entry := range input.Ingredients {
		if entry.Amount < 1 {
			return fmt.Errorf("%w: got %d", ErrInvalidAmount, entry.Amount)
		}
		if _, dup := seen[entry.IngredientID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateIngredient, entry.IngredientID)
		}
		seen[entry.IngredientID] = struct{}{}
	}
	return nil
}

// resolveIngredients verifies every referenced ingredient exists in the
// catalog, failing with ErrUnknownIngredient otherwise.
func (s *RecipeService) resolveIngredients(ctx context.Context, tx *gorm.DB, entries []types.IngredientAmount) error {
	ids := make([]uuid.UUID, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.IngredientID)
	}
	var count int64
	if err := tx.WithContext(ctx).
		Model(&models.Ingredient{}).
		Where("id IN ?", ids).
		Count(&count).Error; err != nil {
		return err
	}
	if count != int64(len(ids)) {
		return ErrUnknownIngredient
	}
	return nil
}

func buildEntries(recipeID uuid.UUID, entries []types.IngredientAmount) []models.RecipeIngredient {
	rows := make([]models.RecipeIngredient, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, models.RecipeIngredient{
			ID:           uuid.New(),
			RecipeID:     recipeID,
			IngredientID: entry.IngredientID,
			Amount:       entry.Amount,
		})
	}
	return rows
}

func (s *RecipeService) resolveTags(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	if err := tx.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, fmt.Errorf("%w: unknown tag", gorm.ErrRecordNotFound)
	}
	return tags, nil
}

// Create validates and stores a new recipe. The recipe row, its ingredient
// entries and its tag links are committed in one transaction, so a reader
// never sees a recipe with a partially-written ingredient set.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, input *types.RecipeInput) (*models.Recipe, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Name:        input.Name,
		Text:        input.Text,
		ImageURL:    input.ImageURL,
		CookingTime: input.CookingTime,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.resolveIngredients(ctx, tx, input.Ingredients); err != nil {
			return err
		}
		tags, err := s.resolveTags(ctx, tx, input.TagIDs)
		if err != nil {
			return err
		}
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		if err := tx.Create(buildEntries(recipe.ID, input.Ingredients)).Error; err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := tx.Model(&recipe).Association("Tags").Append(&tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipe.ID)
}

// Get retrieves a recipe with its ingredient entries and tags.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).
		Preload("Ingredients.Ingredient").
		Preload("Tags").
		Preload("Author").
		First(&recipe, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Update replaces a recipe's fields and its entire ingredient-entry set.
// Only the author may update; the old entries are deleted and the new ones
// inserted inside one transaction, so partial replacement is never observed.
func (s *RecipeService) Update(ctx context.Context, id uuid.UUID, callerID uuid.UUID, input *types.RecipeInput) (*models.Recipe, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if recipe.AuthorID != callerID {
		return nil, ErrNotOwner
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.resolveIngredients(ctx, tx, input.Ingredients); err != nil {
			return err
		}
		tags, err := s.resolveTags(ctx, tx, input.TagIDs)
		if err != nil {
			return err
		}

		recipe.Name = input.Name
		recipe.Text = input.Text
		recipe.CookingTime = input.CookingTime
		if input.ImageURL != "" {
			recipe.ImageURL = input.ImageURL
		}
		if err := tx.Save(&recipe).Error; err != nil {
			return err
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).
			Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Create(buildEntries(recipe.ID, input.Ingredients)).Error; err != nil {
			return err
		}

		if len(tags) == 0 {
			return tx.Model(&recipe).Association("Tags").Clear()
		}
		return tx.Model(&recipe).Association("Tags").Replace(&tags)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// Delete removes a recipe. Allowed for the author or an administrator. The
// ingredient entries, tag links and every favorite/shopping-cart row that
// references the recipe are removed in the same transaction as the recipe
// itself, so no orphaned relation rows survive.
func (s *RecipeService) Delete(ctx context.Context, id uuid.UUID, caller Caller) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return err
	}
	if recipe.AuthorID != caller.ID && !caller.IsAdmin {
		return ErrNotOwner
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := s.favorites.RemoveAllForObject(ctx, tx, id); err != nil {
			return err
		}
		if err := s.carts.RemoveAllForObject(ctx, tx, id); err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", id).Error
	})
}

// List returns recipes matching every filter in f, newest first.
func (s *RecipeService) List(ctx context.Context, f types.RecipeFilter) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if f.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs).
			Distinct("recipes.*")
	}
	if f.FavoritedBy != nil {
		query = query.
			Joins("JOIN favorites ON favorites.recipe_id = recipes.id").
			Where("favorites.user_id = ?", *f.FavoritedBy)
	}
	if f.InShoppingCartBy != nil {
		query = query.
			Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipes.id").
			Where("shopping_carts.user_id = ?", *f.InShoppingCartBy)
	}

	var recipes []models.Recipe
	if err := query.
		Preload("Ingredients.Ingredient").
		Preload("Tags").
		Preload("Author").
		Order("recipes.created_at DESC").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}
