package model

import (
	"fmt"
	"time"
)

// Expense represents a persisted expense record.
type Expense struct {
	Date        time.Time
	CreatedAt   time.Time
	ID          string
	Description string
	CategoryID  string
	Amount      float64
}

// ExpenseDraft is an expense extracted from a voice command that has not been
// persisted yet. It stays pending on the session controller until the category
// is resolved and the draft is saved, or the session is cancelled.
type ExpenseDraft struct {
	Date        time.Time
	Description string
	CategoryID  string
	Amount      float64
}

// Validate ensures the draft can be persisted.
func (d *ExpenseDraft) Validate() error {
	if d.Amount <= 0 {
		return fmt.Errorf("amount must be positive, got %.2f", d.Amount)
	}
	if d.Description == "" {
		return fmt.Errorf("description is required")
	}
	if d.CategoryID == "" {
		return fmt.Errorf("category id is required")
	}
	return nil
}

// HasResolvedCategory reports whether the draft already carries a category
// other than the catch-all default.
func (d *ExpenseDraft) HasResolvedCategory() bool {
	return d.CategoryID != "" && d.CategoryID != CatchAllCategoryID
}
