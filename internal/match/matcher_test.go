package match

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luzi-app/luzi/internal/model"
)

// memOverlayStore is an in-memory OverlayStore for tests.
type memOverlayStore struct {
	overlay   map[string][]string
	saveCalls int
}

func (s *memOverlayStore) GetSynonymOverlay(_ context.Context) (map[string][]string, error) {
	return s.overlay, nil
}

func (s *memOverlayStore) SaveSynonymOverlay(_ context.Context, overlay map[string][]string) error {
	s.overlay = overlay
	s.saveCalls++
	return nil
}

func testCategories() []model.Category {
	return []model.Category{
		{ID: "1", Name: "Comida"},
		{ID: "2", Name: "Transporte"},
		{ID: "3", Name: "Compras"},
		{ID: "4", Name: "Entretenimiento"},
		{ID: "5", Name: "Salud"},
		{ID: "6", Name: "Facturas"},
		{ID: "7", Name: "Otros"},
	}
}

func newTestMatcher(t *testing.T) (*Matcher, *memOverlayStore) {
	t.Helper()
	store := &memOverlayStore{}
	m, err := New(context.Background(), store)
	require.NoError(t, err)
	return m, store
}

func TestMatcher_AddSynonym(t *testing.T) {
	ctx := context.Background()

	t.Run("adds normalized synonym to the overlay", func(t *testing.T) {
		m, store := newTestMatcher(t)

		added, err := m.AddSynonym(ctx, "1", "  Empanáda! ")
		require.NoError(t, err)
		assert.True(t, added)
		assert.Contains(t, m.SynonymsFor("1"), "empanada")
		assert.Equal(t, 1, store.saveCalls)
	})

	t.Run("second add of the same synonym fails without duplicating", func(t *testing.T) {
		m, _ := newTestMatcher(t)

		added, err := m.AddSynonym(ctx, "2", "bondi")
		require.NoError(t, err)
		require.True(t, added)

		added, err = m.AddSynonym(ctx, "2", "Bondí")
		require.NoError(t, err)
		assert.False(t, added)

		count := 0
		for _, s := range m.SynonymsFor("2") {
			if s == "bondi" {
				count++
			}
		}
		assert.Equal(t, 1, count)
	})

	t.Run("rejects synonyms empty after normalization", func(t *testing.T) {
		m, store := newTestMatcher(t)

		added, err := m.AddSynonym(ctx, "1", " ¡!? ")
		require.NoError(t, err)
		assert.False(t, added)
		assert.Zero(t, store.saveCalls)
	})

	t.Run("rejects synonyms already present in the defaults", func(t *testing.T) {
		m, store := newTestMatcher(t)

		added, err := m.AddSynonym(ctx, "1", "sushi")
		require.NoError(t, err)
		assert.False(t, added)
		assert.Zero(t, store.saveCalls)
	})
}

func TestMatcher_RemoveSynonym(t *testing.T) {
	ctx := context.Background()

	t.Run("removing a default-only synonym is a no-op", func(t *testing.T) {
		m, _ := newTestMatcher(t)

		removed, err := m.RemoveSynonym(ctx, "1", "sushi")
		require.NoError(t, err)
		assert.False(t, removed)
		assert.Contains(t, m.SynonymsFor("1"), "sushi")
	})

	t.Run("removes an overlay synonym and collapses the empty entry", func(t *testing.T) {
		store := &memOverlayStore{overlay: map[string][]string{"3": {"shein"}}}
		m, err := New(ctx, store)
		require.NoError(t, err)
		require.Contains(t, m.SynonymsFor("3"), "shein")

		removed, err := m.RemoveSynonym(ctx, "3", "shein")
		require.NoError(t, err)
		assert.True(t, removed)
		assert.NotContains(t, m.SynonymsFor("3"), "shein")
		assert.NotContains(t, store.overlay, "3")
	})

	t.Run("unknown synonym returns false", func(t *testing.T) {
		m, _ := newTestMatcher(t)

		removed, err := m.RemoveSynonym(ctx, "5", "inexistente")
		require.NoError(t, err)
		assert.False(t, removed)
	})
}

func TestMatcher_Score(t *testing.T) {
	m, _ := newTestMatcher(t)
	categories := testCategories()

	t.Run("exact synonym match wins its category", func(t *testing.T) {
		match := m.Score("compré sushi", categories)

		assert.Equal(t, "1", match.CategoryID)
		assert.InDelta(t, 10.0/15.0, match.Confidence, 0.001)
	})

	t.Run("no token matches anything", func(t *testing.T) {
		match := m.Score("xyz123", categories)

		assert.Equal(t, model.CatchAllCategoryID, match.CategoryID)
		assert.Zero(t, match.Confidence)
		assert.Empty(t, match.Candidates)
	})

	t.Run("category name match outranks synonym matches", func(t *testing.T) {
		match := m.Score("transporte", categories)

		assert.Equal(t, "2", match.CategoryID)
		// Exact name (15) plus exact synonym (10), clamped to 1.
		assert.Equal(t, 1.0, match.Confidence)
	})

	t.Run("short tokens are ignored", func(t *testing.T) {
		match := m.Score("en de la", categories)

		assert.Equal(t, model.CatchAllCategoryID, match.CategoryID)
		assert.Zero(t, match.Confidence)
	})

	t.Run("candidates are ranked by descending confidence", func(t *testing.T) {
		// "cine" is an exact synonym of Entretenimiento; "comida" is an exact
		// synonym of Comida and also a partial of other tokens.
		match := m.Score("comida cine comida", categories)

		require.NotEmpty(t, match.Candidates)
		for i := 1; i < len(match.Candidates); i++ {
			assert.GreaterOrEqual(t,
				match.Candidates[i-1].Confidence,
				match.Candidates[i].Confidence)
		}
		assert.Equal(t, match.CategoryID, match.Candidates[0].Category.ID)
	})

	t.Run("overlay synonyms participate in scoring", func(t *testing.T) {
		m2, _ := newTestMatcher(t)
		added, err := m2.AddSynonym(context.Background(), "4", "parapente")
		require.NoError(t, err)
		require.True(t, added)

		match := m2.Score("clase de parapente", categories)
		assert.Equal(t, "4", match.CategoryID)
		assert.InDelta(t, 10.0/15.0, match.Confidence, 0.001)
	})

	t.Run("empty text falls back to the catch-all", func(t *testing.T) {
		match := m.Score("", categories)
		assert.Equal(t, model.CatchAllCategoryID, match.CategoryID)
	})
}
