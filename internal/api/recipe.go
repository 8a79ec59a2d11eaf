package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

type RecipeHandler struct {
	recipes       *service.RecipeService
	favorites     *service.RelationService[models.Favorite]
	carts         *service.RelationService[models.ShoppingCart]
	shoppingLists *service.ShoppingListService
	tokens        middleware.TokenValidator
}

func NewRecipeHandler(
	recipes *service.RecipeService,
	favorites *service.RelationService[models.Favorite],
	carts *service.RelationService[models.ShoppingCart],
	shoppingLists *service.ShoppingListService,
	tokens middleware.TokenValidator,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:       recipes,
		favorites:     favorites,
		carts:         carts,
		shoppingLists: shoppingLists,
		tokens:        tokens,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", middleware.OptionalAuthMiddleware(h.tokens), h.ListRecipes)
		recipes.GET("/download_shopping_cart", middleware.AuthMiddleware(h.tokens), h.DownloadShoppingCart)
		recipes.GET("/:id", middleware.OptionalAuthMiddleware(h.tokens), h.GetRecipe)
		recipes.GET("/:id/get-link", h.GetLink)
		recipes.POST("", middleware.AuthMiddleware(h.tokens), h.CreateRecipe)
		recipes.PATCH("/:id", middleware.AuthMiddleware(h.tokens), h.UpdateRecipe)
		recipes.DELETE("/:id", middleware.AuthMiddleware(h.tokens), h.DeleteRecipe)
		recipes.POST("/:id/favorite", middleware.AuthMiddleware(h.tokens), h.FavoriteRecipe)
		recipes.DELETE("/:id/favorite", middleware.AuthMiddleware(h.tokens), h.UnfavoriteRecipe)
		recipes.POST("/:id/shopping_cart", middleware.AuthMiddleware(h.tokens), h.AddToShoppingCart)
		recipes.DELETE("/:id/shopping_cart", middleware.AuthMiddleware(h.tokens), h.RemoveFromShoppingCart)
	}
}

// viewerFlags fills the viewer-dependent response fields for a recipe.
func (h *RecipeHandler) viewerFlags(c *gin.Context, recipeID uuid.UUID) (favorited, inCart bool) {
	viewer, ok := middleware.CallerID(c)
	if !ok {
		return false, false
	}
	favorited, _ = h.favorites.ExistsFor(c.Request.Context(), viewer, recipeID)
	inCart, _ = h.carts.ExistsFor(c.Request.Context(), viewer, recipeID)
	return favorited, inCart
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var filter types.RecipeFilter

	if author := c.Query("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.AuthorID = &authorID
	}
	filter.TagSlugs = c.QueryArray("tags")

	if viewer, ok := middleware.CallerID(c); ok {
		if c.Query("is_favorited") == "1" {
			id := viewer
			filter.FavoritedBy = &id
		}
		if c.Query("is_in_shopping_cart") == "1" {
			id := viewer
			filter.InShoppingCartBy = &id
		}
	}

	recipes, err := h.recipes.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": "failed to fetch recipes"})
		return
	}

	results := make([]recipeResponse, 0, len(recipes))
	for i := range recipes {
		favorited, inCart := h.viewerFlags(c, recipes[i].ID)
		results = append(results, newRecipeResponse(&recipes[i], favorited, inCart))
	}
	c.JSON(http.StatusOK, gin.H{"recipes": results})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": "recipe not found"})
		return
	}

	favorited, inCart := h.viewerFlags(c, recipe.ID)
	c.JSON(http.StatusOK, newRecipeResponse(recipe, favorited, inCart))
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var input types.RecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), userID, &input)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, newRecipeResponse(recipe, false, false))
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	var input types.RecipeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), id, userID, &input)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	favorited, inCart := h.viewerFlags(c, recipe.ID)
	c.JSON(http.StatusOK, newRecipeResponse(recipe, favorited, inCart))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	caller := service.Caller{ID: userID, IsAdmin: middleware.CallerIsAdmin(c)}
	if err := h.recipes.Delete(c.Request.Context(), id, caller); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// lookupRecipe resolves the caller and the target recipe for the relation
// actions, writing the error response itself when either is missing.
func (h *RecipeHandler) lookupRecipe(c *gin.Context) (*models.Recipe, uuid.UUID, bool) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return nil, uuid.Nil, false
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return nil, uuid.Nil, false
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": "recipe not found"})
		return nil, uuid.Nil, false
	}
	return recipe, userID, true
}

func (h *RecipeHandler) FavoriteRecipe(c *gin.Context) {
	recipe, userID, ok := h.lookupRecipe(c)
	if !ok {
		return
	}
	if _, err := h.favorites.Add(c.Request.Context(), userID, recipe.ID); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, newShortRecipeResponse(recipe))
}

func (h *RecipeHandler) UnfavoriteRecipe(c *gin.Context) {
	recipe, userID, ok := h.lookupRecipe(c)
	if !ok {
		return
	}
	if err := h.favorites.Remove(c.Request.Context(), userID, recipe.ID); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddToShoppingCart(c *gin.Context) {
	recipe, userID, ok := h.lookupRecipe(c)
	if !ok {
		return
	}
	if _, err := h.carts.Add(c.Request.Context(), userID, recipe.ID); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	h.shoppingLists.InvalidateCache(c.Request.Context(), userID)
	c.JSON(http.StatusCreated, newShortRecipeResponse(recipe))
}

func (h *RecipeHandler) RemoveFromShoppingCart(c *gin.Context) {
	recipe, userID, ok := h.lookupRecipe(c)
	if !ok {
		return
	}
	if err := h.carts.Remove(c.Request.Context(), userID, recipe.ID); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	h.shoppingLists.InvalidateCache(c.Request.Context(), userID)
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	text, err := h.shoppingLists.GenerateText(c.Request.Context(), userID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": "failed to generate shopping list"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="foodgram_shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

func (h *RecipeHandler) GetLink(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	if _, err := h.recipes.Get(c.Request.Context(), id); err != nil {
		c.JSON(statusForError(err), gin.H{"error": "recipe not found"})
		return
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	c.JSON(http.StatusOK, gin.H{
		"short-link": fmt.Sprintf("%s://%s/recipes/%s", scheme, c.Request.Host, id),
	})
}
