package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/luzi-app/luzi/internal/common"
	"github.com/luzi-app/luzi/internal/model"
)

// GetCategories returns all categories, built-ins first.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, color, icon, created_at
		 FROM categories
		 ORDER BY LENGTH(id), id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Color, &cat.Icon, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

// GetCategoryByID returns a category by its identifier, or ErrNotFound.
func (s *SQLiteStorage) GetCategoryByID(ctx context.Context, id string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var cat model.Category
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, color, icon, created_at FROM categories WHERE id = ?`, id,
	).Scan(&cat.ID, &cat.Name, &cat.Color, &cat.Icon, &cat.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	return &cat, nil
}

// CreateCategory mints a new category id and persists the category.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, input model.CategoryInput) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(input.Name, "name"); err != nil {
		return nil, err
	}

	cat := model.Category{
		ID:        strconv.FormatInt(time.Now().UnixMilli(), 10),
		Name:      input.Name,
		Color:     input.Color,
		Icon:      input.Icon,
		CreatedAt: time.Now(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, color, icon, created_at) VALUES (?, ?, ?, ?, ?)`,
		cat.ID, cat.Name, cat.Color, cat.Icon, cat.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert category: %w", err)
	}

	slog.Info("category created", "id", cat.ID, "name", cat.Name)
	return &cat, nil
}

// UpdateCategory overwrites the mutable fields of a category.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, id string, input model.CategoryInput) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	if err := validateString(input.Name, "name"); err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, color = ?, icon = ? WHERE id = ?`,
		input.Name, input.Color, input.Icon, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: category %s", common.ErrNotFound, id)
	}

	return s.GetCategoryByID(ctx, id)
}

// DeleteCategory removes a category. Categories still referenced by expenses
// cannot be deleted.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(id, "id"); err != nil {
		return false, err
	}

	var inUse int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM expenses WHERE category_id = ?`, id,
	).Scan(&inUse); err != nil {
		return false, fmt.Errorf("failed to check category usage: %w", err)
	}
	if inUse > 0 {
		return false, fmt.Errorf("%w: category %s has %d expenses", common.ErrCategoryInUse, id, inUse)
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check delete result: %w", err)
	}
	return affected > 0, nil
}
