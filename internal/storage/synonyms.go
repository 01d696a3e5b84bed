package storage

import (
	"context"
	"fmt"
	"log/slog"
)

// GetSynonymOverlay loads the user-defined synonym overlay as a mapping of
// category id to synonym list.
func (s *SQLiteStorage) GetSynonymOverlay(ctx context.Context) (map[string][]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT category_id, synonym
		 FROM category_synonyms
		 ORDER BY category_id, created_at, synonym`)
	if err != nil {
		return nil, fmt.Errorf("failed to query synonym overlay: %w", err)
	}
	defer rows.Close()

	overlay := make(map[string][]string)
	for rows.Next() {
		var categoryID, synonym string
		if err := rows.Scan(&categoryID, &synonym); err != nil {
			return nil, fmt.Errorf("failed to scan synonym: %w", err)
		}
		overlay[categoryID] = append(overlay[categoryID], synonym)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating synonyms: %w", err)
	}

	return overlay, nil
}

// SaveSynonymOverlay replaces the persisted overlay with the given mapping.
// The write is transactional: either the full overlay is stored or nothing
// changes.
func (s *SQLiteStorage) SaveSynonymOverlay(ctx context.Context, overlay map[string][]string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM category_synonyms`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to clear synonym overlay: %w", err)
	}

	for categoryID, synonyms := range overlay {
		for _, synonym := range synonyms {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO category_synonyms (category_id, synonym) VALUES (?, ?)`,
				categoryID, synonym,
			); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("failed to insert synonym %q: %w", synonym, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit synonym overlay: %w", err)
	}

	slog.Debug("synonym overlay saved", "categories", len(overlay))
	return nil
}
