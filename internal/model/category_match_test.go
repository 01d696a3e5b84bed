package model

import (
	"testing"
)

func TestCategoryCandidates_Sort(t *testing.T) {
	candidates := CategoryCandidates{
		{Category: Category{ID: "2", Name: "Transporte"}, Confidence: 0.3},
		{Category: Category{ID: "1", Name: "Comida"}, Confidence: 0.7},
		{Category: Category{ID: "6", Name: "Facturas"}, Confidence: 0.3}, // Same confidence as Transporte
		{Category: Category{ID: "5", Name: "Salud"}, Confidence: 0.5},
	}

	candidates.Sort()

	expected := []struct {
		name       string
		confidence float64
	}{
		{"Comida", 0.7},
		{"Salud", 0.5},
		{"Facturas", 0.3}, // Equal confidence sorts by name
		{"Transporte", 0.3},
	}

	for i, exp := range expected {
		if candidates[i].Category.Name != exp.name || candidates[i].Confidence != exp.confidence {
			t.Errorf("Sort() index %d = %v, want {%s, %.1f}",
				i, candidates[i], exp.name, exp.confidence)
		}
	}
}

func TestCategoryCandidates_Top(t *testing.T) {
	var empty CategoryCandidates
	if empty.Top() != nil {
		t.Error("Top() on empty candidates should be nil")
	}

	candidates := CategoryCandidates{
		{Category: Category{ID: "2", Name: "Transporte"}, Confidence: 0.4},
		{Category: Category{ID: "1", Name: "Comida"}, Confidence: 0.9},
	}

	top := candidates.Top()
	if top == nil || top.Category.ID != "1" {
		t.Errorf("Top() = %v, want category 1", top)
	}
}

func TestCategoryMatch_Ambiguous(t *testing.T) {
	tests := []struct {
		name  string
		match CategoryMatch
		want  bool
	}{
		{
			name: "confident match is not ambiguous",
			match: CategoryMatch{
				CategoryID: "1",
				Confidence: 0.8,
				Candidates: CategoryCandidates{
					{Category: Category{ID: "1", Name: "Comida"}, Confidence: 0.8},
					{Category: Category{ID: "2", Name: "Transporte"}, Confidence: 0.45},
				},
			},
			want: false,
		},
		{
			name: "low confidence with rivals is ambiguous",
			match: CategoryMatch{
				CategoryID: "1",
				Confidence: 0.45,
				Candidates: CategoryCandidates{
					{Category: Category{ID: "1", Name: "Comida"}, Confidence: 0.45},
					{Category: Category{ID: "2", Name: "Transporte"}, Confidence: 0.42},
				},
			},
			want: true,
		},
		{
			name: "low confidence single candidate is not ambiguous",
			match: CategoryMatch{
				CategoryID: "1",
				Confidence: 0.45,
				Candidates: CategoryCandidates{
					{Category: Category{ID: "1", Name: "Comida"}, Confidence: 0.45},
				},
			},
			want: false,
		},
		{
			name:  "no candidates is not ambiguous",
			match: CategoryMatch{CategoryID: CatchAllCategoryID},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.match.Ambiguous(0.5); got != tt.want {
				t.Errorf("Ambiguous(0.5) = %v, want %v", got, tt.want)
			}
		})
	}
}
