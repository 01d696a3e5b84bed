package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/luzi-app/luzi/internal/model"
	"github.com/luzi-app/luzi/internal/normalize"
)

// ErrSelectionCancelled is returned when the user declines to pick a category.
var ErrSelectionCancelled = errors.New("selection canceled")

// Prompter implements the interactive category selection for ambiguous
// expenses.
type Prompter struct {
	writer io.Writer
	reader *NonBlockingReader
}

// NewPrompter creates a prompter with the given reader and writer.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	return NewPrompterWithReader(NewNonBlockingReader(reader), writer)
}

// NewPrompterWithReader creates a prompter over an existing reader so the
// input stream can be shared with the terminal capture.
func NewPrompterWithReader(reader *NonBlockingReader, writer io.Writer) *Prompter {
	if writer == nil {
		writer = os.Stdout
	}

	return &Prompter{
		reader: reader,
		writer: writer,
	}
}

// SelectCategory shows the pending expense with its ranked candidates and
// returns the chosen category ID. The user can pick a candidate by number,
// type a category name, or cancel with an empty line or "c".
func (p *Prompter) SelectCategory(ctx context.Context, draft model.ExpenseDraft, candidates model.CategoryCandidates, categories []model.Category) (string, error) {
	content := fmt.Sprintf("%s\nMonto: %s", draft.Description, BoldStyle.Render(fmt.Sprintf("$%.2f", draft.Amount)))
	if _, err := fmt.Fprintln(p.writer, RenderBox("Gasto pendiente", content)); err != nil {
		return "", fmt.Errorf("failed to write expense box: %w", err)
	}

	for i, c := range candidates {
		line := fmt.Sprintf("  [%d] %s %s", i+1, c.Category.Name, SubtleStyle.Render(fmt.Sprintf("(%.0f%%)", c.Confidence*100)))
		if _, err := fmt.Fprintln(p.writer, line); err != nil {
			return "", fmt.Errorf("failed to write candidate: %w", err)
		}
	}
	if _, err := fmt.Fprintln(p.writer, SubtleStyle.Render("  [c] Cancelar")); err != nil {
		return "", fmt.Errorf("failed to write cancel option: %w", err)
	}

	for {
		if _, err := fmt.Fprint(p.writer, FormatPrompt("Categoría")); err != nil {
			return "", fmt.Errorf("failed to write prompt: %w", err)
		}

		input, err := p.reader.ReadLine(ctx)
		if err != nil {
			if errors.Is(err, ErrInputCancelled) {
				return "", ErrSelectionCancelled
			}
			return "", fmt.Errorf("failed to read selection: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" || strings.EqualFold(input, "c") {
			return "", ErrSelectionCancelled
		}
		if id, ok := p.resolve(input, candidates, categories); ok {
			return id, nil
		}

		if _, err := fmt.Fprintln(p.writer, FormatWarning("Opción inválida, probá de nuevo.")); err != nil {
			return "", fmt.Errorf("failed to write retry message: %w", err)
		}
	}
}

// resolve maps user input to a category ID: candidate index first, then a
// category name match ignoring case and accents.
func (p *Prompter) resolve(input string, candidates model.CategoryCandidates, categories []model.Category) (string, bool) {
	if idx, err := strconv.Atoi(input); err == nil {
		if idx >= 1 && idx <= len(candidates) {
			return candidates[idx-1].Category.ID, true
		}
		return "", false
	}

	folded := normalize.Fold(input)
	for _, cat := range categories {
		if normalize.Fold(cat.Name) == folded {
			return cat.ID, true
		}
	}

	return "", false
}
