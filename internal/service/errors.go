package service

import "errors"

// Domain errors reported synchronously to the caller. None of these represent
// transient infrastructure faults, so nothing here is retried; store-layer
// errors are propagated unmodified alongside these.
var (
	ErrUnknownIngredient   = errors.New("ingredient does not exist")
	ErrDuplicateIngredient = errors.New("ingredient listed more than once")
	ErrNoIngredients       = errors.New("recipe requires at least one ingredient")
	ErrInvalidAmount       = errors.New("ingredient amount must be positive")
	ErrInvalidCookingTime  = errors.New("cooking time must be positive")
	ErrNotOwner            = errors.New("caller is not the recipe author")
	ErrAlreadyExists       = errors.New("relation already exists")
	ErrNotFound            = errors.New("relation not found")
	ErrSelfSubscription    = errors.New("cannot subscribe to yourself")
)
