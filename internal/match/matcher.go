// Package match implements the synonym-based category matching engine.
package match

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/luzi-app/luzi/internal/model"
	"github.com/luzi-app/luzi/internal/normalize"
)

// Scoring weights. A direct category name match outranks any synonym match;
// substring overlaps earn partial credit proportional to length similarity.
const (
	synonymExactScore   = 10.0
	synonymPartialScore = 5.0
	nameExactScore      = 15.0
	namePartialScore    = 8.0

	// maxTokenScore normalizes accumulated scores into a [0,1] confidence.
	maxTokenScore = 15.0

	// candidateThreshold filters which categories appear in the ranked
	// candidate list of a match result.
	candidateThreshold = 0.4

	// minTokenLength discards tokens too short to carry meaning.
	minTokenLength = 3
)

// OverlayStore persists the user-defined synonym overlay.
type OverlayStore interface {
	GetSynonymOverlay(ctx context.Context) (map[string][]string, error)
	SaveSynonymOverlay(ctx context.Context, overlay map[string][]string) error
}

// Matcher scores free text against the merged (built-in + user overlay)
// synonym table and manages overlay mutations.
type Matcher struct {
	store   OverlayStore
	overlay map[string][]string
	merged  map[string][]string
	mu      sync.RWMutex
}

// New creates a Matcher and loads the persisted user overlay.
func New(ctx context.Context, store OverlayStore) (*Matcher, error) {
	overlay, err := store.GetSynonymOverlay(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load synonym overlay: %w", err)
	}
	if overlay == nil {
		overlay = make(map[string][]string)
	}

	m := &Matcher{
		store:   store,
		overlay: overlay,
	}
	m.rebuildMerged()

	slog.Debug("category matcher initialized", "overlay_categories", len(overlay))
	return m, nil
}

// rebuildMerged recomputes the merged table from defaults plus overlay.
// Callers must hold the write lock.
func (m *Matcher) rebuildMerged() {
	merged := make(map[string][]string, len(defaultSynonyms)+len(m.overlay))
	for id, synonyms := range defaultSynonyms {
		merged[id] = append([]string(nil), synonyms...)
	}
	for id, synonyms := range m.overlay {
		seen := make(map[string]bool, len(merged[id]))
		for _, s := range merged[id] {
			seen[s] = true
		}
		for _, s := range synonyms {
			if !seen[s] {
				merged[id] = append(merged[id], s)
				seen[s] = true
			}
		}
	}
	m.merged = merged
}

// AddSynonym normalizes and appends a synonym to the user overlay for the
// given category. It returns false when the synonym is empty after
// normalization or already exists for that category.
func (m *Matcher) AddSynonym(ctx context.Context, categoryID, raw string) (bool, error) {
	synonym := normalize.Normalize(raw)
	if synonym == "" {
		return false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.merged[categoryID] {
		if existing == synonym {
			return false, nil
		}
	}

	m.overlay[categoryID] = append(m.overlay[categoryID], synonym)
	m.rebuildMerged()

	if err := m.store.SaveSynonymOverlay(ctx, m.overlay); err != nil {
		return true, fmt.Errorf("failed to persist synonym overlay: %w", err)
	}

	slog.Info("synonym added", "category_id", categoryID, "synonym", synonym)
	return true, nil
}

// RemoveSynonym removes a synonym from the user overlay. Built-in synonyms
// cannot be removed; attempting to do so returns false. When a category's
// overlay list becomes empty its entry is dropped entirely.
func (m *Matcher) RemoveSynonym(ctx context.Context, categoryID, raw string) (bool, error) {
	synonym := normalize.Normalize(raw)
	if synonym == "" {
		return false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	synonyms, ok := m.overlay[categoryID]
	if !ok {
		return false, nil
	}

	idx := -1
	for i, s := range synonyms {
		if s == synonym {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	synonyms = append(synonyms[:idx], synonyms[idx+1:]...)
	if len(synonyms) == 0 {
		delete(m.overlay, categoryID)
	} else {
		m.overlay[categoryID] = synonyms
	}
	m.rebuildMerged()

	if err := m.store.SaveSynonymOverlay(ctx, m.overlay); err != nil {
		return true, fmt.Errorf("failed to persist synonym overlay: %w", err)
	}

	slog.Info("synonym removed", "category_id", categoryID, "synonym", synonym)
	return true, nil
}

// SynonymsFor returns the merged synonym list for a category.
func (m *Matcher) SynonymsFor(categoryID string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]string(nil), m.merged[categoryID]...)
}

// Score matches free text against the given categories and returns the best
// category with a [0,1] confidence plus the ranked candidate list. When
// nothing matches, the catch-all category wins with zero confidence.
func (m *Matcher) Score(text string, categories []model.Category) model.CategoryMatch {
	m.mu.RLock()
	defer m.mu.RUnlock()

	scores := make(map[string]float64, len(categories))
	for _, word := range strings.Fields(normalize.Normalize(text)) {
		if utf8.RuneCountInString(word) < minTokenLength {
			continue
		}

		for _, cat := range categories {
			for _, synonym := range m.merged[cat.ID] {
				switch {
				case synonym == word:
					scores[cat.ID] += synonymExactScore
				case strings.Contains(synonym, word) || strings.Contains(word, synonym):
					scores[cat.ID] += synonymPartialScore * lengthRatio(synonym, word)
				}
			}

			name := normalize.Normalize(cat.Name)
			if name == "" {
				continue
			}
			switch {
			case name == word:
				scores[cat.ID] += nameExactScore
			case strings.Contains(name, word) || strings.Contains(word, name):
				scores[cat.ID] += namePartialScore * lengthRatio(name, word)
			}
		}
	}

	// Highest score wins; ties keep the first category encountered.
	bestID := model.CatchAllCategoryID
	bestScore := 0.0
	for _, cat := range categories {
		if score := scores[cat.ID]; score > bestScore {
			bestScore = score
			bestID = cat.ID
		}
	}

	confidence := bestScore / maxTokenScore
	if confidence > 1 {
		confidence = 1
	}

	var candidates model.CategoryCandidates
	for _, cat := range categories {
		ratio := scores[cat.ID] / maxTokenScore
		if ratio > candidateThreshold {
			candidates = append(candidates, model.CategoryCandidate{
				Category:   cat,
				Confidence: ratio,
			})
		}
	}
	candidates.Sort()

	return model.CategoryMatch{
		CategoryID: bestID,
		Confidence: confidence,
		Candidates: candidates,
	}
}

// lengthRatio returns min(len)/max(len) of two strings, in runes.
func lengthRatio(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 || lb == 0 {
		return 0
	}
	if la > lb {
		la, lb = lb, la
	}
	return float64(la) / float64(lb)
}
