package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/foodgram/backend/internal/types"
)

func TestCreateRecipe(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db, "author")
	flour := testhelpers.CreateTestIngredient(t, db, "Flour", "g")
	sugar := testhelpers.CreateTestIngredient(t, db, "Sugar", "g")
	tag := testhelpers.CreateTestTag(t, db, "breakfast")

	recipe, err := svc.Create(ctx, author.ID, &types.RecipeInput{
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 20,
		TagIDs:      []uuid.UUID{tag.ID},
		Ingredients: []types.IngredientAmount{
			{IngredientID: flour.ID, Amount: 200},
			{IngredientID: sugar.ID, Amount: 50},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, author.ID, recipe.AuthorID)
	assert.Len(t, recipe.Ingredients, 2)
	require.Len(t, recipe.Tags, 1)
	assert.Equal(t, tag.Slug, recipe.Tags[0].Slug)
}

func TestCreateRecipeValidation(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db, "author")
	salt := testhelpers.CreateTestIngredient(t, db, "Salt", "g")

	tests := []struct {
		name    string
		input   types.RecipeInput
		wantErr error
	}{
		{
			name: "non-positive cooking time",
			input: types.RecipeInput{
				Name:        "Raw",
				CookingTime: 0,
				Ingredients: []types.IngredientAmount{{IngredientID: salt.ID, Amount: 1}},
			},
			wantErr: service.ErrInvalidCookingTime,
		},
		{
			name: "no ingredients",
			input: types.RecipeInput{
				Name:        "Air",
				CookingTime: 5,
			},
			wantErr: service.ErrNoIngredients,
		},
		{
			name: "non-positive amount",
			input: types.RecipeInput{
				Name:        "Nothing",
				CookingTime: 5,
				Ingredients: []types.IngredientAmount{{IngredientID: salt.ID, Amount: 0}},
			},
			wantErr: service.ErrInvalidAmount,
		},
		{
			name: "duplicate ingredient",
			input: types.RecipeInput{
				Name:        "Salty",
				CookingTime: 5,
				Ingredients: []types.IngredientAmount{
					{IngredientID: salt.ID, Amount: 1},
					{IngredientID: salt.ID, Amount: 2},
				},
			},
			wantErr: service.ErrDuplicateIngredient,
		},
		{
			name: "unknown ingredient",
			input: types.RecipeInput{
				Name:        "Mystery",
				CookingTime: 5,
				Ingredients: []types.IngredientAmount{{IngredientID: uuid.New(), Amount: 1}},
			},
			wantErr: service.ErrUnknownIngredient,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, author.ID, &tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// None of the failed creates may leave partial state behind.
	var recipeCount, entryCount int64
	require.NoError(t, db.Model(&models.Recipe{}).Count(&recipeCount).Error)
	require.NoError(t, db.Model(&models.RecipeIngredient{}).Count(&entryCount).Error)
	assert.Equal(t, int64(0), recipeCount)
	assert.Equal(t, int64(0), entryCount)
}

func TestUpdateRecipeNotOwner(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db, "author")
	stranger := testhelpers.CreateTestUser(t, db, "stranger")
	flour := testhelpers.CreateTestIngredient(t, db, "Flour", "g")

	recipe, err := svc.Create(ctx, author.ID, &types.RecipeInput{
		Name:        "Bread",
		CookingTime: 60,
		Ingredients: []types.IngredientAmount{{IngredientID: flour.ID, Amount: 500}},
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, recipe.ID, stranger.ID, &types.RecipeInput{
		Name:        "Stolen Bread",
		CookingTime: 30,
		Ingredients: []types.IngredientAmount{{IngredientID: flour.ID, Amount: 1}},
	})
	assert.ErrorIs(t, err, service.ErrNotOwner)

	// State unchanged.
	unchanged, err := svc.Get(ctx, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bread", unchanged.Name)
	assert.Equal(t, 60, unchanged.CookingTime)
	require.Len(t, unchanged.Ingredients, 1)
	assert.Equal(t, int64(500), unchanged.Ingredients[0].Amount)
}

func TestUpdateReplacesIngredientSet(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db, "author")
	flour := testhelpers.CreateTestIngredient(t, db, "Flour", "g")
	egg := testhelpers.CreateTestIngredient(t, db, "Egg", "pcs")

	recipe, err := svc.Create(ctx, author.ID, &types.RecipeInput{
		Name:        "Dough",
		CookingTime: 15,
		Ingredients: []types.IngredientAmount{{IngredientID: flour.ID, Amount: 300}},
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, recipe.ID, author.ID, &types.RecipeInput{
		Name:        "Egg Dough",
		CookingTime: 25,
		Ingredients: []types.IngredientAmount{
			{IngredientID: egg.ID, Amount: 3},
		},
	})
	require.NoError(t, err)

	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, egg.ID, updated.Ingredients[0].IngredientID)
	assert.Equal(t, int64(3), updated.Ingredients[0].Amount)

	// The old junction row must be gone, not orphaned.
	var entryCount int64
	require.NoError(t, db.Model(&models.RecipeIngredient{}).Count(&entryCount).Error)
	assert.Equal(t, int64(1), entryCount)
}

func TestDeleteRecipeCascades(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db, "author")
	fan := testhelpers.CreateTestUser(t, db, "fan")
	flour := testhelpers.CreateTestIngredient(t, db, "Flour", "g")

	recipe, err := svc.Create(ctx, author.ID, &types.RecipeInput{
		Name:        "Cake",
		CookingTime: 45,
		Ingredients: []types.IngredientAmount{{IngredientID: flour.ID, Amount: 400}},
	})
	require.NoError(t, err)

	favorites := service.NewFavoriteService(db)
	carts := service.NewShoppingCartService(db)
	_, err = favorites.Add(ctx, fan.ID, recipe.ID)
	require.NoError(t, err)
	_, err = carts.Add(ctx, fan.ID, recipe.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, recipe.ID, service.Caller{ID: author.ID}))

	_, err = svc.Get(ctx, recipe.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// No orphaned rows in any referencing table.
	for _, model := range []interface{}{
		&models.RecipeIngredient{}, &models.Favorite{}, &models.ShoppingCart{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	}
}

func TestDeleteRecipePolicy(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	author := testhelpers.CreateTestUser(t, db, "author")
	stranger := testhelpers.CreateTestUser(t, db, "stranger")
	admin := testhelpers.CreateTestUser(t, db, "admin")
	flour := testhelpers.CreateTestIngredient(t, db, "Flour", "g")

	recipe, err := svc.Create(ctx, author.ID, &types.RecipeInput{
		Name:        "Pie",
		CookingTime: 50,
		Ingredients: []types.IngredientAmount{{IngredientID: flour.ID, Amount: 250}},
	})
	require.NoError(t, err)

	err = svc.Delete(ctx, recipe.ID, service.Caller{ID: stranger.ID})
	assert.ErrorIs(t, err, service.ErrNotOwner)

	// An administrator may delete someone else's recipe.
	err = svc.Delete(ctx, recipe.ID, service.Caller{ID: admin.ID, IsAdmin: true})
	assert.NoError(t, err)
}

func TestListRecipesFilters(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	alice := testhelpers.CreateTestUser(t, db, "alice")
	bob := testhelpers.CreateTestUser(t, db, "bob")
	viewer := testhelpers.CreateTestUser(t, db, "viewer")
	flour := testhelpers.CreateTestIngredient(t, db, "Flour", "g")
	dinner := testhelpers.CreateTestTag(t, db, "dinner")

	aliceRecipe, err := svc.Create(ctx, alice.ID, &types.RecipeInput{
		Name:        "Alice Soup",
		CookingTime: 30,
		TagIDs:      []uuid.UUID{dinner.ID},
		Ingredients: []types.IngredientAmount{{IngredientID: flour.ID, Amount: 10}},
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, bob.ID, &types.RecipeInput{
		Name:        "Bob Stew",
		CookingTime: 40,
		Ingredients: []types.IngredientAmount{{IngredientID: flour.ID, Amount: 20}},
	})
	require.NoError(t, err)

	favorites := service.NewFavoriteService(db)
	_, err = favorites.Add(ctx, viewer.ID, aliceRecipe.ID)
	require.NoError(t, err)

	byAuthor, err := svc.List(ctx, types.RecipeFilter{AuthorID: &alice.ID})
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, "Alice Soup", byAuthor[0].Name)

	byTag, err := svc.List(ctx, types.RecipeFilter{TagSlugs: []string{dinner.Slug}})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, aliceRecipe.ID, byTag[0].ID)

	byFavorite, err := svc.List(ctx, types.RecipeFilter{FavoritedBy: &viewer.ID})
	require.NoError(t, err)
	require.Len(t, byFavorite, 1)
	assert.Equal(t, aliceRecipe.ID, byFavorite[0].ID)

	// Filters are ANDed: alice's recipe is favorited, bob's is not.
	both, err := svc.List(ctx, types.RecipeFilter{AuthorID: &bob.ID, FavoritedBy: &viewer.ID})
	require.NoError(t, err)
	assert.Empty(t, both)

	all, err := svc.List(ctx, types.RecipeFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
