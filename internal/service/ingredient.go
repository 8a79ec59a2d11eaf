package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
)

// IngredientService is the catalog of ingredient names and measurement units.
type IngredientService struct {
	db *gorm.DB
}

// NewIngredientService creates a new IngredientService instance
func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

// IngredientRow is one row of an external catalog import.
type IngredientRow struct {
	Name            string
	MeasurementUnit string
}

// RowError records a single rejected import row.
type RowError struct {
	Index  int
	Reason string
}

// BulkLoadResult summarizes a catalog import.
type BulkLoadResult struct {
	Inserted int
	Skipped  int
	Errors   []RowError
}

// Get retrieves an ingredient by ID.
func (s *IngredientService) Get(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

// List returns ingredients, optionally narrowed to a case-insensitive name
// prefix, ordered by name.
func (s *IngredientService) List(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	query := s.db.WithContext(ctx).Order("name ASC")
	if namePrefix != "" {
		query = query.Where("LOWER(name) LIKE ?", strings.ToLower(namePrefix)+"%")
	}
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// FindOrRegister returns the ingredient with the given (name, unit) identity,
// creating it if absent. Idempotent: calling it twice yields the same row.
func (s *IngredientService) FindOrRegister(ctx context.Context, name, unit string) (*models.Ingredient, error) {
	name = strings.TrimSpace(name)
	unit = strings.TrimSpace(unit)
	if name == "" || unit == "" {
		return nil, fmt.Errorf("%w: name and unit are required", ErrUnknownIngredient)
	}

	var ingredient models.Ingredient
	err := s.db.WithContext(ctx).
		Where("name = ? AND measurement_unit = ?", name, unit).
		First(&ingredient).Error
	if err == nil {
		return &ingredient, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ingredient = models.Ingredient{
		ID:              uuid.New(),
		Name:            name,
		MeasurementUnit: unit,
	}
	if err := s.db.WithContext(ctx).Create(&ingredient).Error; err != nil {
		// Lost a race with a concurrent insert of the same identity.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing models.Ingredient
			if ferr := s.db.WithContext(ctx).
				Where("name = ? AND measurement_unit = ?", name, unit).
				First(&existing).Error; ferr == nil {
				return &existing, nil
			}
		}
		return nil, err
	}
	return &ingredient, nil
}

// BulkLoad imports a catalog. Malformed rows are collected rather than
// aborting the batch; rows whose identity already exists count as skipped.
func (s *IngredientService) BulkLoad(ctx context.Context, rows []IngredientRow) (*BulkLoadResult, error) {
	result := &BulkLoadResult{}

	for i, row := range rows {
		name := strings.TrimSpace(row.Name)
		unit := strings.TrimSpace(row.MeasurementUnit)
		if name == "" || unit == "" {
			result.Errors = append(result.Errors, RowError{
				Index:  i,
				Reason: "missing name or measurement unit",
			})
			continue
		}

		var count int64
		if err := s.db.WithContext(ctx).
			Model(&models.Ingredient{}).
			Where("name = ? AND measurement_unit = ?", name, unit).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			result.Skipped++
			continue
		}

		ingredient := models.Ingredient{
			ID:              uuid.New(),
			Name:            name,
			MeasurementUnit: unit,
		}
		if err := s.db.WithContext(ctx).Create(&ingredient).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				result.Skipped++
				continue
			}
			result.Errors = append(result.Errors, RowError{Index: i, Reason: err.Error()})
			continue
		}
		result.Inserted++
	}

	return result, nil
}
