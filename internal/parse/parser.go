// Package parse extracts expense drafts from raw speech transcripts.
package parse

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/luzi-app/luzi/internal/model"
	"github.com/luzi-app/luzi/internal/normalize"
)

// PlaceholderDescription is used when no description can be extracted from a
// transcript that still carries a valid amount.
const PlaceholderDescription = "Gasto por voz"

// Amount patterns, tried in order; the first match wins. Patterns run against
// folded (lowercase, accent-free) text.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(?:pesos|euros|dolares|€|\$)?`),
	regexp.MustCompile(`(?:gast[eoa]|pagu[eoa]|pag[oa]|compr[eoa]|adquiri)\s+(?:por)?\s*(\d+(?:[.,]\d+)?)`),
	regexp.MustCompile(`(?:son|fueron|es|de)\s+(\d+(?:[.,]\d+)?)\s*(?:pesos|euros|dolares|€|\$)?`),
}

// Description patterns, tried in order. Capture stops at a comma, a following
// preposition, the word "categoria", "para", or a digit.
var descriptionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:en|por|de|para)\s+([a-z\s]+?)(?:,|\sen\s|\sde\s|$|\scategoria\s|\spara\s|\s\d)`),
	regexp.MustCompile(`(?:gast[eoa]|pagu[eoa]|pag[oa]|compr[eoa])\s+(?:en|por)?\s+([a-z\s]+?)(?:,|\sen\s|$|\scategoria\s|\spara\s|\s\d)`),
	regexp.MustCompile(`\d+(?:[.,]\d+)?\s+(?:pesos|€|euros|dolares|dollars)?\s+(?:en|de|por)?\s+([a-z\s]+?)(?:,|\sen\s|$|\scategoria\s|\spara\s|\s\d)`),
	regexp.MustCompile(`(?:por|en|de)\s+([a-z\s]+)$`),
}

// Leading fillers stripped from extracted descriptions.
var fillerPrefixes = []string{
	"en ", "por ", "para ", "de ", "del ", "la ", "el ", "los ", "las ", "un ", "una ",
}

// Domain patterns recalled from short-term context.
var (
	restaurantPattern     = regexp.MustCompile(`(?:restaurant|restaurante|resto|cafe|bar|pizzeria)`)
	restaurantNamePattern = regexp.MustCompile(`(?:restaurant|restaurante|resto|cafe|bar|pizzeria)\s+([a-z\s]+)`)
	fastFoodPattern       = regexp.MustCompile(`(?:burger|hamburguesa|pizza|sushi|taco|kebab)`)
)

// Config holds configuration options for the transcript parser.
type Config struct {
	HistorySize     int
	ContextLearning bool
}

// DefaultConfig returns the default parser configuration.
func DefaultConfig() Config {
	return Config{
		HistorySize:     5,
		ContextLearning: true,
	}
}

// Parser turns raw transcripts into expense drafts. It keeps a bounded
// history of recent transcripts so that domain patterns spanning consecutive
// commands can refine the extracted description.
type Parser struct {
	now         func() time.Time
	history     []string
	historySize int
	learn       bool
	mu          sync.Mutex
}

// New creates a parser with the default configuration.
func New() *Parser {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a parser with custom configuration.
func NewWithConfig(cfg Config) *Parser {
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = DefaultConfig().HistorySize
	}
	return &Parser{
		historySize: cfg.HistorySize,
		learn:       cfg.ContextLearning,
		now:         time.Now,
	}
}

// Parse extracts an expense draft from a transcript. It returns nil when no
// monetary amount can be found, which marks the transcript as not being an
// expense command. The draft's category is always left at the catch-all
// default; category resolution belongs to the matcher.
func (p *Parser) Parse(transcript string) *model.ExpenseDraft {
	folded := normalize.Fold(strings.TrimSpace(transcript))
	if folded == "" {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	recent := p.recentContext()
	p.remember(folded)

	amount, amountToken, ok := extractAmount(folded)
	if !ok {
		slog.Debug("transcript has no amount", "transcript", folded)
		return nil
	}

	description := extractDescription(folded, amountToken)

	if final, overridden := p.applyContext(recent, description); overridden {
		description = final
	} else {
		description = enhanceDescription(description)
	}

	return &model.ExpenseDraft{
		Amount:      amount,
		Description: description,
		CategoryID:  model.CatchAllCategoryID,
		Date:        p.now(),
	}
}

// remember appends a folded transcript to the bounded history.
func (p *Parser) remember(folded string) {
	p.history = append(p.history, folded)
	if len(p.history) > p.historySize {
		p.history = p.history[len(p.history)-p.historySize:]
	}
}

// recentContext joins the last two remembered transcripts.
func (p *Parser) recentContext() string {
	n := len(p.history)
	if n > 2 {
		return strings.Join(p.history[n-2:], " ")
	}
	return strings.Join(p.history, " ")
}

// extractAmount finds the first amount token and parses it as a float.
// Comma is accepted as the decimal separator.
func extractAmount(text string) (float64, string, bool) {
	for _, pattern := range amountPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil || m[1] == "" {
			continue
		}
		value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		if err != nil {
			continue
		}
		return value, m[1], true
	}
	return 0, "", false
}

// extractDescription tries the ordered description patterns, then falls back
// to the trailing text after the amount, then to the placeholder.
func extractDescription(text, amountToken string) string {
	for _, pattern := range descriptionPatterns {
		m := pattern.FindStringSubmatch(text)
		if m != nil && strings.TrimSpace(m[1]) != "" {
			return strings.TrimSpace(m[1])
		}
	}

	if idx := strings.Index(text, amountToken); idx >= 0 {
		trailing := strings.TrimSpace(text[idx+len(amountToken):])
		if utf8.RuneCountInString(trailing) > 3 {
			return trailing
		}
	}

	return ""
}

// applyContext recalls the short-term phrase context: when recent transcripts
// show a known spending domain, the description is replaced with a
// domain-specific label. The current transcript alone never triggers an
// override, only accumulated context does.
func (p *Parser) applyContext(recent, description string) (string, bool) {
	if !p.learn || recent == "" {
		return description, false
	}

	combined := recent + " " + description

	if restaurantPattern.MatchString(recent) {
		if m := restaurantNamePattern.FindStringSubmatch(recent); m != nil {
			if name := strings.TrimSpace(m[1]); name != "" {
				return capitalize(name), true
			}
		}
		return "Restaurante", true
	}

	if fastFoodPattern.MatchString(recent) {
		if strings.Contains(combined, "delivery") || strings.Contains(combined, "envio") {
			return "Delivery de comida", true
		}
		return "Comida rápida", true
	}

	return description, false
}

// enhanceDescription strips a leading filler preposition or article and
// capitalizes the first letter. An empty description becomes the placeholder.
func enhanceDescription(description string) string {
	if description == "" {
		return PlaceholderDescription
	}

	lowered := strings.ToLower(description)
	for _, prefix := range fillerPrefixes {
		if strings.HasPrefix(lowered, prefix) {
			lowered = lowered[len(prefix):]
			break
		}
	}

	return capitalize(strings.TrimSpace(lowered))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
