package model

import (
	"fmt"
	"sort"
)

// CategoryCandidate represents how strongly a piece of text matches a single
// category.
type CategoryCandidate struct {
	Category   Category
	Confidence float64
}

// Validate ensures the candidate has valid data.
func (c *CategoryCandidate) Validate() error {
	if err := c.Category.Validate(); err != nil {
		return fmt.Errorf("invalid candidate category: %w", err)
	}
	if c.Confidence < 0 {
		return fmt.Errorf("confidence must not be negative, got %.2f", c.Confidence)
	}
	return nil
}

// CategoryCandidates is a slice of CategoryCandidate that supports sorting.
type CategoryCandidates []CategoryCandidate

// Len implements sort.Interface.
func (c CategoryCandidates) Len() int {
	return len(c)
}

// Less implements sort.Interface - higher confidence comes first.
func (c CategoryCandidates) Less(i, j int) bool {
	if c[i].Confidence != c[j].Confidence {
		return c[i].Confidence > c[j].Confidence
	}
	// Equal confidence sorts by name for stable output.
	return c[i].Category.Name < c[j].Category.Name
}

// Swap implements sort.Interface.
func (c CategoryCandidates) Swap(i, j int) {
	c[i], c[j] = c[j], c[i]
}

// Sort sorts the candidates by confidence in descending order.
func (c CategoryCandidates) Sort() {
	sort.Sort(c)
}

// Top returns the highest-confidence candidate, or nil if empty.
func (c CategoryCandidates) Top() *CategoryCandidate {
	if len(c) == 0 {
		return nil
	}
	c.Sort()
	return &c[0]
}

// CategoryMatch is the result of scoring free text against the active
// category set. Candidates holds every category whose score cleared the
// candidate threshold, best first.
type CategoryMatch struct {
	CategoryID string
	Candidates CategoryCandidates
	Confidence float64
}

// Ambiguous reports whether the match needs user confirmation before the
// category can be trusted: confidence below the auto-assign threshold with
// more than one plausible candidate.
func (m *CategoryMatch) Ambiguous(threshold float64) bool {
	return m.Confidence < threshold && len(m.Candidates) > 1
}
