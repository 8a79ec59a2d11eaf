package types

import "github.com/google/uuid"

// IngredientAmount references a catalog ingredient with its amount in a recipe.
type IngredientAmount struct {
	IngredientID uuid.UUID `json:"id" binding:"required"`
	Amount       int64     `json:"amount" binding:"required"`
}

// RecipeInput carries everything a recipe create or update needs. Updates
// replace the whole ingredient set, so the same shape serves both.
type RecipeInput struct {
	Name        string             `json:"name" binding:"required"`
	Text        string             `json:"text"`
	ImageURL    string             `json:"image"`
	CookingTime int                `json:"cooking_time" binding:"required"`
	TagIDs      []uuid.UUID        `json:"tags"`
	Ingredients []IngredientAmount `json:"ingredients" binding:"required"`
}

// RecipeFilter is the ANDed filter set for recipe listing. Nil pointers mean
// the filter is not applied.
type RecipeFilter struct {
	AuthorID         *uuid.UUID
	TagSlugs         []string
	FavoritedBy      *uuid.UUID
	InShoppingCartBy *uuid.UUID
}
