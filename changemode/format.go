package changemode

import (
	"fmt"
	"strings"

	"geminimcp/chunk"
)

// Formatter renders parsed edits into a paginated tool response, caching
// overflow pages for later retrieval.
type Formatter struct {
	cache    *chunk.Cache
	splitter *chunk.Splitter
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithMaxTokens sets the per-response token budget.
func WithMaxTokens(n int) Option {
	return func(f *Formatter) {
		f.splitter = chunk.NewSplitter(n)
	}
}

// NewFormatter creates a formatter backed by the given cache.
func NewFormatter(cache *chunk.Cache, opts ...Option) *Formatter {
	f := &Formatter{
		cache:    cache,
		splitter: chunk.NewSplitter(chunk.DefaultMaxTokens),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format produces the changeMode response.
//
// With a cacheKey, raw is ignored and the requested page of a previously
// cached response is returned (index < 1 means page 1). Without a cacheKey,
// raw is parsed into edits and rendered; output over budget is split on edit
// boundaries, cached, and the page at index (default 1) is returned with a
// continuation footer.
func (f *Formatter) Format(raw string, index int, cacheKey, prompt string) (string, error) {
	if cacheKey != "" {
		return f.fromCache(cacheKey, index)
	}

	edits := ParseEdits(raw)
	if len(edits) == 0 {
		return "No structured edits found in the response. Raw output follows.\n\n" + raw, nil
	}

	pages := f.splitter.SplitBlocks(renderEdits(edits, prompt))
	if len(pages) == 1 {
		return pages[0], nil
	}

	key := f.cache.Put(pages)
	if index < 1 {
		index = 1
	}
	if index > len(pages) {
		return "", fmt.Errorf("%w: %d of %d", chunk.ErrIndexOutOfRange, index, len(pages))
	}
	return renderPage(pages[index-1], index, len(pages), key), nil
}

func (f *Formatter) fromCache(key string, index int) (string, error) {
	if index < 1 {
		index = 1
	}
	page, total, err := f.cache.Get(key, index)
	if err != nil {
		return "", fmt.Errorf("retrieve chunk %d: %w", index, err)
	}
	return renderPage(page, index, total, key), nil
}

// renderEdits produces one block per edit, preceded by a summary block.
func renderEdits(edits []Edit, prompt string) []string {
	files := FilesTouched(edits)
	blocks := make([]string, 0, len(edits)+1)
	blocks = append(blocks, fmt.Sprintf("%d edit(s) in %d file(s) for: %s",
		len(edits), len(files), summarize(prompt)))

	for i, e := range edits {
		blocks = append(blocks, fmt.Sprintf("[%d] %s:%d\nOLD:\n%s\nNEW:\n%s",
			i+1, e.File, e.Line, e.Old, e.New))
	}
	return blocks
}

func renderPage(page string, index, total int, key string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Chunk %d of %d (cache key %s)\n\n", index, total, key)
	b.WriteString(page)
	if index < total {
		fmt.Fprintf(&b, "\n\nMore chunks remain. Call fetch-chunk with cacheKey %q and chunkIndex %d.",
			key, index+1)
	}
	return b.String()
}

const maxSummaryLen = 80

// summarize reduces the prompt to a single short line for the header.
func summarize(prompt string) string {
	line := strings.TrimSpace(prompt)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	runes := []rune(line)
	if len(runes) > maxSummaryLen {
		line = string(runes[:maxSummaryLen-3]) + "..."
	}
	return line
}
