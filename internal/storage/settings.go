package storage

import (
	"context"
	"fmt"

	"github.com/luzi-app/luzi/internal/model"
)

// GetSettings returns the singleton settings row.
func (s *SQLiteStorage) GetSettings(ctx context.Context) (*model.Settings, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var settings model.Settings
	err := s.db.QueryRowContext(ctx,
		`SELECT monthly_limit, enable_notifications, enable_voice FROM settings WHERE id = 1`,
	).Scan(&settings.MonthlyLimit, &settings.EnableNotifications, &settings.EnableVoice)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}

	return &settings, nil
}

// UpdateSettings overwrites the singleton settings row.
func (s *SQLiteStorage) UpdateSettings(ctx context.Context, settings model.Settings) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`UPDATE settings SET monthly_limit = ?, enable_notifications = ?, enable_voice = ? WHERE id = 1`,
		settings.MonthlyLimit, settings.EnableNotifications, settings.EnableVoice,
	)
	if err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}

	return nil
}
