package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// UserService reads user records for the API layer. Account management
// (registration, passwords, sessions) is owned by the surrounding auth layer.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new UserService instance
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ListSubscribedAuthors returns the authors the follower is subscribed to, in
// subscription-creation order (oldest first), so the "who I follow" listing is
// stable across reads.
func (s *UserService) ListSubscribedAuthors(ctx context.Context, followerID uuid.UUID) ([]models.User, error) {
	var authors []models.User
	if err := s.db.WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.follower_id = ?", followerID).
		Order("subscriptions.created_at ASC").
		Find(&authors).Error; err != nil {
		return nil, err
	}
	return authors, nil
}

// CountRecipes returns how many recipes an author has published.
func (s *UserService) CountRecipes(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
