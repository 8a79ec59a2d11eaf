package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// RunMigrations brings the schema up to date. The composite unique indexes on
// the junction and relation tables are created here; the services rely on them
// for their uniqueness guarantees.
func RunMigrations(db *gorm.DB) error {
	log.Printf("Running schema migrations (%s)", db.Dialector.Name())
	return db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCart{},
		&models.Subscription{},
	)
}
