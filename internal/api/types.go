package api

import (
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/models"
)

type ingredientEntryResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int64     `json:"amount"`
}

type authorResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Avatar       string    `json:"avatar"`
	IsSubscribed bool      `json:"is_subscribed"`
}

type recipeResponse struct {
	ID               uuid.UUID                 `json:"id"`
	Author           *authorResponse           `json:"author,omitempty"`
	Name             string                    `json:"name"`
	Text             string                    `json:"text"`
	Image            string                    `json:"image"`
	CookingTime      int                       `json:"cooking_time"`
	Tags             []models.Tag              `json:"tags"`
	Ingredients      []ingredientEntryResponse `json:"ingredients"`
	IsFavorited      bool                      `json:"is_favorited"`
	IsInShoppingCart bool                      `json:"is_in_shopping_cart"`
}

// shortRecipeResponse is the compact shape returned by favorite/cart actions.
type shortRecipeResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

type subscribedAuthorResponse struct {
	authorResponse
	RecipesCount int64 `json:"recipes_count"`
}

func newAuthorResponse(user *models.User, isSubscribed bool) *authorResponse {
	if user == nil {
		return nil
	}
	return &authorResponse{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Avatar:       user.AvatarURL,
		IsSubscribed: isSubscribed,
	}
}

func newRecipeResponse(recipe *models.Recipe, isFavorited, isInCart bool) recipeResponse {
	entries := make([]ingredientEntryResponse, 0, len(recipe.Ingredients))
	for _, entry := range recipe.Ingredients {
		item := ingredientEntryResponse{
			ID:     entry.IngredientID,
			Amount: entry.Amount,
		}
		if entry.Ingredient != nil {
			item.Name = entry.Ingredient.Name
			item.MeasurementUnit = entry.Ingredient.MeasurementUnit
		}
		entries = append(entries, item)
	}
	tags := recipe.Tags
	if tags == nil {
		tags = []models.Tag{}
	}
	return recipeResponse{
		ID:               recipe.ID,
		Author:           newAuthorResponse(recipe.Author, false),
		Name:             recipe.Name,
		Text:             recipe.Text,
		Image:            recipe.ImageURL,
		CookingTime:      recipe.CookingTime,
		Tags:             tags,
		Ingredients:      entries,
		IsFavorited:      isFavorited,
		IsInShoppingCart: isInCart,
	}
}

func newShortRecipeResponse(recipe *models.Recipe) shortRecipeResponse {
	return shortRecipeResponse{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}
}
