// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"time"
)

// CatchAllCategoryID identifies the "Otros" bucket that expenses fall into
// when no confident category match exists. It is one of the built-in
// categories seeded by the migrations.
const CatchAllCategoryID = "7"

// Category represents an expense category.
type Category struct {
	CreatedAt time.Time
	ID        string
	Name      string
	Color     string
	Icon      string
}

// Validate ensures the Category has valid data.
func (c *Category) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("category id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("category name is required")
	}
	return nil
}

// CategoryInput holds the user-provided fields for a new or updated category.
type CategoryInput struct {
	Name  string
	Color string
	Icon  string
}
