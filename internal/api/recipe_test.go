package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/api"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/testhelpers"
	"github.com/foodgram/backend/internal/types"
)

const testSecret = "test-secret"

func setupRecipeRouter(t *testing.T) (*gin.Engine, *gorm.DB, *service.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDB(t)
	tokens := service.NewTokenService(testSecret)

	handler := api.NewRecipeHandler(
		service.NewRecipeService(db),
		service.NewFavoriteService(db),
		service.NewShoppingCartService(db),
		service.NewShoppingListService(db, nil),
		tokens,
	)

	router := gin.New()
	group := router.Group("/api/v1")
	handler.RegisterRoutes(group)
	return router, db, tokens
}

func bearerFor(t *testing.T, tokens *service.TokenService, userID uuid.UUID) string {
	t.Helper()
	token, err := tokens.Sign(userID, false, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func createRecipeVia(t *testing.T, db *gorm.DB, authorID uuid.UUID, name string) *models.Recipe {
	t.Helper()
	ingredient := testhelpers.CreateTestIngredient(t, db, name+" base", "g")
	recipe, err := service.NewRecipeService(db).Create(context.Background(), authorID, &types.RecipeInput{
		Name:        name,
		CookingTime: 10,
		Ingredients: []types.IngredientAmount{{IngredientID: ingredient.ID, Amount: 100}},
	})
	require.NoError(t, err)
	return recipe
}

func TestCreateRecipeEndpoint(t *testing.T) {
	router, db, tokens := setupRecipeRouter(t)
	author := testhelpers.CreateTestUser(t, db, "author")
	flour := testhelpers.CreateTestIngredient(t, db, "Flour", "g")

	body, err := json.Marshal(types.RecipeInput{
		Name:        "Pancakes",
		Text:        "Mix and fry.",
		CookingTime: 20,
		Ingredients: []types.IngredientAmount{{IngredientID: flour.ID, Amount: 200}},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerFor(t, tokens, author.ID))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		ID   uuid.UUID `json:"id"`
		Name string    `json:"name"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Pancakes", resp.Name)
	assert.NotEqual(t, uuid.Nil, resp.ID)
}

func TestCreateRecipeEndpointRequiresAuth(t *testing.T) {
	router, _, _ := setupRecipeRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateRecipeEndpointValidationStatus(t *testing.T) {
	router, db, tokens := setupRecipeRouter(t)
	author := testhelpers.CreateTestUser(t, db, "author")

	body := []byte(`{"name":"Air","cooking_time":5,"ingredients":[]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerFor(t, tokens, author.ID))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRecipeEndpointViewerFlags(t *testing.T) {
	router, db, tokens := setupRecipeRouter(t)
	author := testhelpers.CreateTestUser(t, db, "author")
	viewer := testhelpers.CreateTestUser(t, db, "viewer")
	recipe := createRecipeVia(t, db, author.ID, "Soup")

	_, err := service.NewFavoriteService(db).Add(context.Background(), viewer.ID, recipe.ID)
	require.NoError(t, err)

	// Anonymous request: flags are false.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes/"+recipe.ID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var anon struct {
		IsFavorited bool `json:"is_favorited"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &anon))
	assert.False(t, anon.IsFavorited)

	// Authenticated viewer sees their own favorite.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/recipes/"+recipe.ID.String(), nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, viewer.ID))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var authed struct {
		IsFavorited bool `json:"is_favorited"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &authed))
	assert.True(t, authed.IsFavorited)
}

func TestFavoriteEndpointDuplicate(t *testing.T) {
	router, db, tokens := setupRecipeRouter(t)
	author := testhelpers.CreateTestUser(t, db, "author")
	fan := testhelpers.CreateTestUser(t, db, "fan")
	recipe := createRecipeVia(t, db, author.ID, "Cake")
	auth := bearerFor(t, tokens, fan.ID)

	url := "/api/v1/recipes/" + recipe.ID.String() + "/favorite"

	req := httptest.NewRequest(http.MethodPost, url, nil)
	req.Header.Set("Authorization", auth)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodPost, url, nil)
	req.Header.Set("Authorization", auth)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req = httptest.NewRequest(http.MethodDelete, url, nil)
	req.Header.Set("Authorization", auth)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Removing again is a 404: the pair no longer exists.
	req = httptest.NewRequest(http.MethodDelete, url, nil)
	req.Header.Set("Authorization", auth)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteRecipeEndpointForbidden(t *testing.T) {
	router, db, tokens := setupRecipeRouter(t)
	author := testhelpers.CreateTestUser(t, db, "author")
	stranger := testhelpers.CreateTestUser(t, db, "stranger")
	recipe := createRecipeVia(t, db, author.ID, "Pie")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/recipes/"+recipe.ID.String(), nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, stranger.ID))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/recipes/"+recipe.ID.String(), nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, author.ID))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestDownloadShoppingCartEndpoint(t *testing.T) {
	router, db, tokens := setupRecipeRouter(t)
	author := testhelpers.CreateTestUser(t, db, "author")
	shopper := testhelpers.CreateTestUser(t, db, "shopper")
	recipe := createRecipeVia(t, db, author.ID, "Bread")

	_, err := service.NewShoppingCartService(db).Add(context.Background(), shopper.ID, recipe.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes/download_shopping_cart", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, shopper.ID))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="foodgram_shopping_list.txt"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "Foodgram shopping list:")
	assert.Contains(t, w.Body.String(), "Bread base (g) — 100")
}
