package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite marks a recipe as bookmarked by a user. The composite unique index
// is what keeps concurrent adds from inserting the same pair twice.
type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_user_favorite_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_user_favorite_recipe" json:"recipe_id"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// ShoppingCart is the working set of recipes a user intends to shop for.
type ShoppingCart struct {
	ID        uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_user_cart_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_user_cart_recipe" json:"recipe_id"`
}

func (ShoppingCart) TableName() string {
	return "shopping_carts"
}

// Subscription is a follower-to-author relation. Self-subscription is rejected
// in the service layer before the row is ever written.
type Subscription struct {
	ID         uuid.UUID `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	FollowerID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_follower_author" json:"follower_id"`
	AuthorID   uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_follower_author" json:"author_id"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
