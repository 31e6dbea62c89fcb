package domain

import (
	"errors"
	"time"
)

var ErrCategoryNotFound = errors.New("category not found")

type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}
