package models

import (
	"time"
)

// Model is a record that a [Repository] stores.
type Model interface {
	ID() string
	Sequence() int // Display number assigned on create
	CreatedAt() time.Time
	UpdatedAt() time.Time
	Validate() error
}

// Criteria filters [Repository.List]. Keys are repository specific; unknown keys are ignored.
type Criteria map[string]any

// String returns the non-empty string stored under key.
func (c Criteria) String(key string) (string, bool) {
	v, ok := c[key].(string)
	return v, ok && v != ""
}

// Int returns the positive int stored under key.
func (c Criteria) Int(key string) (int, bool) {
	v, ok := c[key].(int)
	return v, ok && v > 0
}

// Repository stores models of one kind. Get on a missing or deleted id returns a not-found error.
type Repository[T Model] interface {
	Create(model T) error
	Get(id string) (T, error)
	Update(model T) error
	Delete(id string) error
	List(criteria Criteria) ([]T, error)
}
