package models

import (
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	ID          uuid.UUID          `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	AuthorID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"author_id"`
	Author      *User              `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Name        string             `gorm:"size:256;not null" json:"name"`
	Text        string             `gorm:"type:text" json:"text"`
	ImageURL    string             `gorm:"size:255" json:"image"`
	CookingTime int                `gorm:"not null" json:"cooking_time"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients"`
	Tags        []Tag              `gorm:"many2many:recipe_tags" json:"tags"`
}

// RecipeIngredient is the junction row carrying the amount of one ingredient
// in one recipe. An ingredient may appear at most once per recipe.
type RecipeIngredient struct {
	ID           uuid.UUID   `gorm:"type:uuid;primarykey" json:"-"`
	RecipeID     uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient" json:"-"`
	IngredientID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient" json:"id"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID" json:"-"`
	Amount       int64       `gorm:"not null" json:"amount"`
}
