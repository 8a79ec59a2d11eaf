package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/service"
)

type IngredientHandler struct {
	catalog *service.IngredientService
}

func NewIngredientHandler(catalog *service.IngredientService) *IngredientHandler {
	return &IngredientHandler{catalog: catalog}
}

func (h *IngredientHandler) RegisterRoutes(router *gin.RouterGroup) {
	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", h.ListIngredients)
		ingredients.GET("/:id", h.GetIngredient)
	}
}

// ListIngredients returns the catalog, optionally narrowed by a name prefix
// via the ?name= query parameter.
func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.catalog.List(c.Request.Context(), c.Query("name"))
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": "failed to fetch ingredients"})
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ingredient id"})
		return
	}

	ingredient, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": "ingredient not found"})
		return
	}
	c.JSON(http.StatusOK, ingredient)
}
