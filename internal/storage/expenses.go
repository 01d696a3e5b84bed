package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/luzi-app/luzi/internal/common"
	"github.com/luzi-app/luzi/internal/model"
	"github.com/luzi-app/luzi/internal/service"
)

// AddExpense persists a draft as a new expense record.
func (s *SQLiteStorage) AddExpense(ctx context.Context, draft *model.ExpenseDraft) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	expense := model.Expense{
		ID:          uuid.NewString(),
		Amount:      draft.Amount,
		Description: draft.Description,
		CategoryID:  draft.CategoryID,
		Date:        draft.Date,
		CreatedAt:   time.Now(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (id, amount, description, category_id, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Amount, expense.Description, expense.CategoryID,
		expense.Date, expense.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert expense: %w", err)
	}

	slog.Debug("expense inserted", "id", expense.ID, "amount", expense.Amount)
	return &expense, nil
}

// GetExpenses returns expenses matching the filter, newest first.
func (s *SQLiteStorage) GetExpenses(ctx context.Context, filter service.ExpenseFilter) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, amount, description, category_id, date, created_at
		FROM expenses
		WHERE 1=1`
	var args []any

	if filter.StartDate != nil {
		query += " AND date >= ?"
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += " AND date < ?"
		args = append(args, *filter.EndDate)
	}
	if filter.CategoryID != "" {
		query += " AND category_id = ?"
		args = append(args, filter.CategoryID)
	}

	query += " ORDER BY date DESC, created_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []model.Expense
	for rows.Next() {
		var e model.Expense
		if err := rows.Scan(&e.ID, &e.Amount, &e.Description, &e.CategoryID, &e.Date, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	return expenses, nil
}

// GetExpenseByID returns a single expense, or ErrNotFound.
func (s *SQLiteStorage) GetExpenseByID(ctx context.Context, id string) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var e model.Expense
	err := s.db.QueryRowContext(ctx,
		`SELECT id, amount, description, category_id, date, created_at
		 FROM expenses WHERE id = ?`, id,
	).Scan(&e.ID, &e.Amount, &e.Description, &e.CategoryID, &e.Date, &e.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: expense %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query expense: %w", err)
	}

	return &e, nil
}

// UpdateExpense overwrites the mutable fields of an expense.
func (s *SQLiteStorage) UpdateExpense(ctx context.Context, id string, draft *model.ExpenseDraft) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET amount = ?, description = ?, category_id = ?, date = ? WHERE id = ?`,
		draft.Amount, draft.Description, draft.CategoryID, draft.Date, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: expense %s", common.ErrNotFound, id)
	}

	return s.GetExpenseByID(ctx, id)
}

// DeleteExpense removes an expense and reports whether a row was deleted.
func (s *SQLiteStorage) DeleteExpense(ctx context.Context, id string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(id, "id"); err != nil {
		return false, err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete expense: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check delete result: %w", err)
	}
	return affected > 0, nil
}

// GetCategoryTotals aggregates expense amounts per category over [start, end).
func (s *SQLiteStorage) GetCategoryTotals(ctx context.Context, start, end time.Time) ([]model.CategoryTotal, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT category_id, SUM(amount)
		 FROM expenses
		 WHERE date >= ? AND date < ?
		 GROUP BY category_id
		 ORDER BY SUM(amount) DESC`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query category totals: %w", err)
	}
	defer rows.Close()

	var totals []model.CategoryTotal
	for rows.Next() {
		var t model.CategoryTotal
		if err := rows.Scan(&t.CategoryID, &t.Total); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category totals: %w", err)
	}

	return totals, nil
}

// GetMonthlyTotal sums all expenses in the calendar month containing the
// given time.
func (s *SQLiteStorage) GetMonthlyTotal(ctx context.Context, month time.Time) (float64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	start, end := service.MonthRange(month)

	var total sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT SUM(amount) FROM expenses WHERE date >= ? AND date < ?`,
		start, end,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to query monthly total: %w", err)
	}

	return total.Float64, nil
}
