package testhelpers

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// CreateTestUser inserts a user with unique email and username.
func CreateTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		ID:        uuid.New(),
		Email:     fmt.Sprintf("%s-%s@example.com", username, uuid.NewString()[:8]),
		Username:  fmt.Sprintf("%s-%s", username, uuid.NewString()[:8]),
		FirstName: "Test",
		LastName:  "User",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestIngredient inserts a catalog ingredient with the given identity.
func CreateTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()

	ingredient := &models.Ingredient{
		ID:              uuid.New(),
		Name:            name,
		MeasurementUnit: unit,
	}
	if err := db.Create(ingredient).Error; err != nil {
		t.Fatalf("failed to create test ingredient: %v", err)
	}
	return ingredient
}

// CreateTestTag inserts a tag with a unique slug.
func CreateTestTag(t *testing.T, db *gorm.DB, name string) *models.Tag {
	t.Helper()

	tag := &models.Tag{
		ID:    uuid.New(),
		Name:  name,
		Slug:  fmt.Sprintf("%s-%s", name, uuid.NewString()[:8]),
		Color: "#49B64E",
	}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create test tag: %v", err)
	}
	return tag
}
