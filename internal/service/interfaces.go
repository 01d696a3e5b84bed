// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/luzi-app/luzi/internal/model"
)

// ExpenseFilter defines filtering options for expense queries.
type ExpenseFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID string
	Limit      int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Expense operations
	AddExpense(ctx context.Context, draft *model.ExpenseDraft) (*model.Expense, error)
	GetExpenses(ctx context.Context, filter ExpenseFilter) ([]model.Expense, error)
	GetExpenseByID(ctx context.Context, id string) (*model.Expense, error)
	UpdateExpense(ctx context.Context, id string, draft *model.ExpenseDraft) (*model.Expense, error)
	DeleteExpense(ctx context.Context, id string) (bool, error)

	// Category operations
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryByID(ctx context.Context, id string) (*model.Category, error)
	CreateCategory(ctx context.Context, input model.CategoryInput) (*model.Category, error)
	UpdateCategory(ctx context.Context, id string, input model.CategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) (bool, error)

	// Synonym overlay operations
	GetSynonymOverlay(ctx context.Context) (map[string][]string, error)
	SaveSynonymOverlay(ctx context.Context, overlay map[string][]string) error

	// Settings operations
	GetSettings(ctx context.Context) (*model.Settings, error)
	UpdateSettings(ctx context.Context, settings model.Settings) error

	// Aggregations
	GetCategoryTotals(ctx context.Context, start, end time.Time) ([]model.CategoryTotal, error)
	GetMonthlyTotal(ctx context.Context, month time.Time) (float64, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// MonthRange returns the half-open [start, end) interval covering the
// calendar month that contains t, in t's location.
func MonthRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}
