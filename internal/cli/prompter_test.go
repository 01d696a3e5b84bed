package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luzi-app/luzi/internal/model"
)

func promptFixture() (model.ExpenseDraft, model.CategoryCandidates, []model.Category) {
	food := model.Category{ID: "1", Name: "Comida"}
	transport := model.Category{ID: "2", Name: "Transporte"}
	draft := model.ExpenseDraft{
		Amount:      1500,
		Description: "Sushi",
		CategoryID:  model.CatchAllCategoryID,
		Date:        time.Now(),
	}
	candidates := model.CategoryCandidates{
		{Category: food, Confidence: 0.45},
		{Category: transport, Confidence: 0.41},
	}
	return draft, candidates, []model.Category{food, transport}
}

func TestPrompter_SelectByNumber(t *testing.T) {
	draft, candidates, categories := promptFixture()
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("2\n"), &out)

	id, err := p.SelectCategory(context.Background(), draft, candidates, categories)
	require.NoError(t, err)
	assert.Equal(t, "2", id)

	assert.Contains(t, out.String(), "Sushi")
	assert.Contains(t, out.String(), "Comida")
	assert.Contains(t, out.String(), "Transporte")
}

func TestPrompter_SelectByName(t *testing.T) {
	draft, candidates, categories := promptFixture()
	p := NewPrompter(strings.NewReader("transporte\n"), &bytes.Buffer{})

	id, err := p.SelectCategory(context.Background(), draft, candidates, categories)
	require.NoError(t, err)
	assert.Equal(t, "2", id)
}

func TestPrompter_SelectByNameIgnoresAccents(t *testing.T) {
	draft, candidates, categories := promptFixture()
	p := NewPrompter(strings.NewReader("TRANSPÓRTE\n"), &bytes.Buffer{})

	id, err := p.SelectCategory(context.Background(), draft, candidates, categories)
	require.NoError(t, err)
	assert.Equal(t, "2", id)
}

func TestPrompter_Cancel(t *testing.T) {
	draft, candidates, categories := promptFixture()

	for _, input := range []string{"c\n", "\n"} {
		p := NewPrompter(strings.NewReader(input), &bytes.Buffer{})
		_, err := p.SelectCategory(context.Background(), draft, candidates, categories)
		assert.ErrorIs(t, err, ErrSelectionCancelled)
	}
}

func TestPrompter_RetriesInvalidInput(t *testing.T) {
	draft, candidates, categories := promptFixture()
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("9\nalgo\n1\n"), &out)

	id, err := p.SelectCategory(context.Background(), draft, candidates, categories)
	require.NoError(t, err)
	assert.Equal(t, "1", id)
	assert.Contains(t, out.String(), "Opción inválida")
}

func TestPrompter_ContextCancellation(t *testing.T) {
	draft, candidates, categories := promptFixture()
	p := NewPrompter(strings.NewReader(""), &bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.SelectCategory(ctx, draft, candidates, categories)
	assert.ErrorIs(t, err, ErrSelectionCancelled)
}

func TestNotifier_Toasts(t *testing.T) {
	var out bytes.Buffer
	n := NewNotifier(&out)

	n.Success("Gasto guardado", "$1500.00 en Comida")
	n.Error("Error", "No se pudo guardar el gasto.")

	text := out.String()
	assert.Contains(t, text, "Gasto guardado: $1500.00 en Comida")
	assert.Contains(t, text, "Error: No se pudo guardar el gasto.")
}

func TestNotifier_AmbiguousCategory(t *testing.T) {
	draft, candidates, _ := promptFixture()
	var out bytes.Buffer
	n := NewNotifier(&out)

	n.AmbiguousCategory(draft, candidates)

	text := out.String()
	assert.Contains(t, text, "Categoría ambigua")
	assert.Contains(t, text, "Sushi")
	assert.Contains(t, text, "[1] Comida")
	assert.Contains(t, text, "[2] Transporte")
}
