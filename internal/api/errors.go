package api

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/service"
)

// statusForError maps domain errors onto HTTP statuses. Anything unrecognized
// is an infrastructure failure and becomes a 500.
func statusForError(err error) int {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, service.ErrAlreadyExists),
		errors.Is(err, service.ErrSelfSubscription),
		errors.Is(err, service.ErrUnknownIngredient),
		errors.Is(err, service.ErrDuplicateIngredient),
		errors.Is(err, service.ErrNoIngredients),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidCookingTime):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
