package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version the application expects.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS categories (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					color TEXT NOT NULL DEFAULT '',
					icon TEXT NOT NULL DEFAULT '',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS expenses (
					id TEXT PRIMARY KEY,
					amount REAL NOT NULL,
					description TEXT NOT NULL,
					category_id TEXT NOT NULL,
					date DATETIME NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (category_id) REFERENCES categories(id)
				)`,
				`CREATE INDEX idx_expenses_date ON expenses(date)`,
				`CREATE INDEX idx_expenses_category ON expenses(category_id)`,

				`CREATE TABLE IF NOT EXISTS category_synonyms (
					category_id TEXT NOT NULL,
					synonym TEXT NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					PRIMARY KEY (category_id, synonym)
				)`,

				`CREATE TABLE IF NOT EXISTS settings (
					id INTEGER PRIMARY KEY CHECK (id = 1),
					monthly_limit REAL NOT NULL,
					enable_notifications INTEGER NOT NULL DEFAULT 1,
					enable_voice INTEGER NOT NULL DEFAULT 1
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Seed built-in categories and default settings",
		Up: func(tx *sql.Tx) error {
			builtins := []struct {
				id    string
				name  string
				color string
				icon  string
			}{
				{"1", "Comida", "#FF6B6B", "utensils"},
				{"2", "Transporte", "#4ECDC4", "car"},
				{"3", "Compras", "#FFD166", "shopping-bag"},
				{"4", "Entretenimiento", "#6A0572", "film"},
				{"5", "Salud", "#1A936F", "heart-pulse"},
				{"6", "Facturas", "#3D5A80", "file-text"},
				{"7", "Otros", "#8A817C", "more-horizontal"},
			}

			for _, cat := range builtins {
				if _, err := tx.Exec(
					`INSERT OR IGNORE INTO categories (id, name, color, icon) VALUES (?, ?, ?, ?)`,
					cat.id, cat.name, cat.color, cat.icon,
				); err != nil {
					return fmt.Errorf("failed to seed category %s: %w", cat.name, err)
				}
			}

			if _, err := tx.Exec(
				`INSERT OR IGNORE INTO settings (id, monthly_limit, enable_notifications, enable_voice)
				 VALUES (1, 50000, 1, 1)`,
			); err != nil {
				return fmt.Errorf("failed to seed settings: %w", err)
			}
			return nil
		},
	},
}

// Migrate applies any pending schema migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	return nil
}
