package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// relationRow is the set of pair-relation tables the registry can manage.
type relationRow interface {
	models.Favorite | models.ShoppingCart | models.Subscription
}

// RelationService enforces the shared contract of the three pair relations:
// each (subject, object) pair exists at most once, and the uniqueness check is
// atomic with the insert. The check itself is the table's composite unique
// index; a concurrent duplicate surfaces as gorm.ErrDuplicatedKey and is
// reported as ErrAlreadyExists, so two racing adds can never both succeed.
type RelationService[T relationRow] struct {
	db         *gorm.DB
	subjectCol string
	objectCol  string
	newRow     func(id, subject, object uuid.UUID) T
	forbidSelf bool
}

// NewFavoriteService creates the user-to-recipe favorite registry.
func NewFavoriteService(db *gorm.DB) *RelationService[models.Favorite] {
	return &RelationService[models.Favorite]{
		db:         db,
		subjectCol: "user_id",
		objectCol:  "recipe_id",
		newRow: func(id, subject, object uuid.UUID) models.Favorite {
			return models.Favorite{ID: id, UserID: subject, RecipeID: object}
		},
	}
}

// NewShoppingCartService creates the user-to-recipe shopping-cart registry.
func NewShoppingCartService(db *gorm.DB) *RelationService[models.ShoppingCart] {
	return &RelationService[models.ShoppingCart]{
		db:         db,
		subjectCol: "user_id",
		objectCol:  "recipe_id",
		newRow: func(id, subject, object uuid.UUID) models.ShoppingCart {
			return models.ShoppingCart{ID: id, UserID: subject, RecipeID: object}
		},
	}
}

// NewSubscriptionService creates the follower-to-author registry. Unlike the
// recipe relations it rejects subject == object.
func NewSubscriptionService(db *gorm.DB) *RelationService[models.Subscription] {
	return &RelationService[models.Subscription]{
		db:         db,
		subjectCol: "follower_id",
		objectCol:  "author_id",
		newRow: func(id, subject, object uuid.UUID) models.Subscription {
			return models.Subscription{ID: id, FollowerID: subject, AuthorID: object}
		},
		forbidSelf: true,
	}
}

// Add inserts the (subject, object) pair and returns the new relation ID.
// Fails with ErrAlreadyExists if the pair is present and ErrSelfSubscription
// when a self-pair is forbidden.
func (s *RelationService[T]) Add(ctx context.Context, subject, object uuid.UUID) (uuid.UUID, error) {
	if s.forbidSelf && subject == object {
		return uuid.Nil, ErrSelfSubscription
	}

	row := s.newRow(uuid.New(), subject, object)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return uuid.Nil, ErrAlreadyExists
		}
		return uuid.Nil, err
	}
	return rowID(row), nil
}

// Remove deletes the (subject, object) pair, failing with ErrNotFound if the
// pair is absent.
func (s *RelationService[T]) Remove(ctx context.Context, subject, object uuid.UUID) error {
	var row T
	result := s.db.WithContext(ctx).
		Where(fmt.Sprintf("%s = ? AND %s = ?", s.subjectCol, s.objectCol), subject, object).
		Delete(&row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ExistsFor reports whether the (subject, object) pair is present.
func (s *RelationService[T]) ExistsFor(ctx context.Context, subject, object uuid.UUID) (bool, error) {
	var row T
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&row).
		Where(fmt.Sprintf("%s = ? AND %s = ?", s.subjectCol, s.objectCol), subject, object).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListObjectsFor returns the object IDs related to subject, oldest first.
func (s *RelationService[T]) ListObjectsFor(ctx context.Context, subject uuid.UUID) ([]uuid.UUID, error) {
	var row T
	var objects []uuid.UUID
	if err := s.db.WithContext(ctx).
		Model(&row).
		Where(fmt.Sprintf("%s = ?", s.subjectCol), subject).
		Order("created_at ASC").
		Pluck(s.objectCol, &objects).Error; err != nil {
		return nil, err
	}
	return objects, nil
}

// RemoveAllForObject clears every pair referencing object, in the caller's
// transaction. Used by cascading deletes.
func (s *RelationService[T]) RemoveAllForObject(ctx context.Context, tx *gorm.DB, object uuid.UUID) error {
	var row T
	return tx.WithContext(ctx).
		Where(fmt.Sprintf("%s = ?", s.objectCol), object).
		Delete(&row).Error
}

func rowID[T relationRow](row T) uuid.UUID {
	switch r := any(row).(type) {
	case models.Favorite:
		return r.ID
	case models.ShoppingCart:
		return r.ID
	case models.Subscription:
		return r.ID
	}
	return uuid.Nil
}
