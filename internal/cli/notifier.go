package cli

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/luzi-app/luzi/internal/model"
)

// Notifier renders session notifications as styled terminal lines. It is the
// terminal stand-in for the toast notifications a graphical client shows.
type Notifier struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewNotifier creates a terminal notifier writing to the given writer.
func NewNotifier(writer io.Writer) *Notifier {
	if writer == nil {
		writer = os.Stdout
	}
	return &Notifier{writer: writer}
}

// RecognitionComplete is a no-op for the terminal: there is no cached view to
// refresh, the success toast already carries the outcome.
func (n *Notifier) RecognitionComplete() {}

// AmbiguousCategory prints the pending expense and its ranked candidates.
// The actual selection happens through the Prompter.
func (n *Notifier) AmbiguousCategory(draft model.ExpenseDraft, candidates model.CategoryCandidates) {
	n.mu.Lock()
	defer n.mu.Unlock()

	fmt.Fprintln(n.writer, FormatWarning(fmt.Sprintf("Categoría ambigua para %q ($%.2f)", draft.Description, draft.Amount)))
	for i, c := range candidates {
		fmt.Fprintf(n.writer, "  [%d] %s %s\n", i+1, c.Category.Name, SubtleStyle.Render(fmt.Sprintf("(%.0f%%)", c.Confidence*100)))
	}
}

// Success prints a success toast.
func (n *Notifier) Success(title, detail string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	line := title
	if detail != "" {
		line += ": " + detail
	}
	fmt.Fprintln(n.writer, FormatSuccess(line))
}

// Error prints an error toast.
func (n *Notifier) Error(title, detail string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	line := title
	if detail != "" {
		line += ": " + detail
	}
	fmt.Fprintln(n.writer, FormatError(line))
}
