package chunk

import "strings"

// DefaultMaxTokens is the default per-page token budget.
// Roughly 20k characters with the estimating counter.
const DefaultMaxTokens = 5000

// BlockSeparator joins blocks that land on the same page.
const BlockSeparator = "\n\n"

// Splitter paginates text into pages that fit a token budget.
type Splitter struct {
	counter   Counter
	maxTokens int
}

// NewSplitter creates a splitter with the given per-page token budget.
// A non-positive budget falls back to DefaultMaxTokens.
func NewSplitter(maxTokens int) *Splitter {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Splitter{
		counter:   NewEstimatingCounter(),
		maxTokens: maxTokens,
	}
}

// WithCounter sets a custom token counter.
func (s *Splitter) WithCounter(counter Counter) *Splitter {
	s.counter = counter
	return s
}

// MaxTokens returns the per-page token budget.
func (s *Splitter) MaxTokens() int {
	return s.maxTokens
}

// Split paginates text on line boundaries. A single line that exceeds the
// budget is hard-split on rune boundaries. Always returns at least one page.
func (s *Splitter) Split(text string) []string {
	if s.counter.FitsInLimit(text, s.maxTokens) {
		return []string{text}
	}
	return s.pack(strings.Split(text, "\n"), "\n")
}

// SplitBlocks paginates whole blocks, never breaking a block across pages
// unless a single block alone exceeds the budget. Always returns at least
// one page.
func (s *Splitter) SplitBlocks(blocks []string) []string {
	if len(blocks) == 0 {
		return []string{""}
	}
	return s.pack(blocks, BlockSeparator)
}

// pack greedily fills pages with units joined by sep.
func (s *Splitter) pack(units []string, sep string) []string {
	var pages []string
	var page strings.Builder

	flush := func() {
		if page.Len() > 0 {
			pages = append(pages, page.String())
			page.Reset()
		}
	}

	for _, unit := range units {
		// Oversized unit: flush the current page and hard-split the unit.
		if !s.counter.FitsInLimit(unit, s.maxTokens) {
			flush()
			pages = append(pages, s.hardSplit(unit)...)
			continue
		}

		candidate := unit
		if page.Len() > 0 {
			candidate = page.String() + sep + unit
		}
		if s.counter.FitsInLimit(candidate, s.maxTokens) {
			if page.Len() > 0 {
				page.WriteString(sep)
			}
			page.WriteString(unit)
			continue
		}

		flush()
		page.WriteString(unit)
	}
	flush()

	if len(pages) == 0 {
		return []string{""}
	}
	return pages
}

// hardSplit slices text on rune boundaries into budget-sized pieces.
func (s *Splitter) hardSplit(text string) []string {
	ratio := DefaultCharsPerToken
	if ec, ok := s.counter.(*EstimatingCounter); ok && ec.CharsPerToken > 0 {
		ratio = ec.CharsPerToken
	}
	maxRunes := int(float64(s.maxTokens) * ratio)
	if maxRunes < 1 {
		maxRunes = 1
	}

	runes := []rune(text)
	var pieces []string
	for start := 0; start < len(runes); start += maxRunes {
		end := start + maxRunes
		if end > len(runes) {
			end = len(runes)
		}
		pieces = append(pieces, string(runes[start:end]))
	}
	if len(pieces) == 0 {
		pieces = []string{""}
	}
	return pieces
}
