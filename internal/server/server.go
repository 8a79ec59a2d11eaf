package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/api"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/router"
	"github.com/foodgram/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	engine *gin.Engine
	http   *http.Server
	db     *gorm.DB
}

// New wires services and handlers onto a configured gin engine.
func New(cfg *config.Config, db *gorm.DB, healthDB *database.DB, redisClient *redis.Client) *Server {
	if !config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	tokenService := service.NewTokenService(cfg.JWTSecret)

	recipeService := service.NewRecipeService(db)
	ingredientService := service.NewIngredientService(db)
	userService := service.NewUserService(db)
	favoriteService := service.NewFavoriteService(db)
	cartService := service.NewShoppingCartService(db)
	subscriptionService := service.NewSubscriptionService(db)
	shoppingListService := service.NewShoppingListService(db, redisClient)

	recipeHandler := api.NewRecipeHandler(recipeService, favoriteService, cartService, shoppingListService, tokenService)
	ingredientHandler := api.NewIngredientHandler(ingredientService)
	userHandler := api.NewUserHandler(userService, subscriptionService, tokenService)

	engine := router.SetupRouter(recipeHandler, ingredientHandler, userHandler, healthDB, cfg.AllowedOrigins)

	return &Server{
		engine: engine,
		db:     db,
		http: &http.Server{
			Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
			Handler: engine,
		},
	}
}

// Start starts the server and blocks until it stops.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
