package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
)

type UserHandler struct {
	users         *service.UserService
	subscriptions *service.RelationService[models.Subscription]
	tokens        middleware.TokenValidator
}

func NewUserHandler(
	users *service.UserService,
	subscriptions *service.RelationService[models.Subscription],
	tokens middleware.TokenValidator,
) *UserHandler {
	return &UserHandler{
		users:         users,
		subscriptions: subscriptions,
		tokens:        tokens,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("/subscriptions", middleware.AuthMiddleware(h.tokens), h.ListSubscriptions)
		users.GET("/:id", middleware.OptionalAuthMiddleware(h.tokens), h.GetUser)
		users.POST("/:id/subscribe", middleware.AuthMiddleware(h.tokens), h.Subscribe)
		users.DELETE("/:id/subscribe", middleware.AuthMiddleware(h.tokens), h.Unsubscribe)
	}
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": "user not found"})
		return
	}

	isSubscribed := false
	if viewer, ok := middleware.CallerID(c); ok {
		isSubscribed, _ = h.subscriptions.ExistsFor(c.Request.Context(), viewer, user.ID)
	}
	c.JSON(http.StatusOK, newAuthorResponse(user, isSubscribed))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	followerID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	author, err := h.users.Get(c.Request.Context(), authorID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": "user not found"})
		return
	}

	if _, err := h.subscriptions.Add(c.Request.Context(), followerID, authorID); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	count, _ := h.users.CountRecipes(c.Request.Context(), authorID)
	c.JSON(http.StatusCreated, subscribedAuthorResponse{
		authorResponse: *newAuthorResponse(author, true),
		RecipesCount:   count,
	})
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	followerID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	authorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.subscriptions.Remove(c.Request.Context(), followerID, authorID); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// ListSubscriptions returns the authors the caller follows, oldest
// subscription first.
func (h *UserHandler) ListSubscriptions(c *gin.Context) {
	followerID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	authors, err := h.users.ListSubscribedAuthors(c.Request.Context(), followerID)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": "failed to fetch subscriptions"})
		return
	}

	results := make([]subscribedAuthorResponse, 0, len(authors))
	for i := range authors {
		count, _ := h.users.CountRecipes(c.Request.Context(), authors[i].ID)
		results = append(results, subscribedAuthorResponse{
			authorResponse: *newAuthorResponse(&authors[i], true),
			RecipesCount:   count,
		})
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
