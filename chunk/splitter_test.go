package chunk

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimatingCounter_Count(t *testing.T) {
	c := NewEstimatingCounter()

	assert.Equal(t, 0, c.Count(""))
	assert.Equal(t, 1, c.Count("four"))
	assert.Equal(t, 3, c.Count("hello, world")) // 12 runes / 4

	// Runes, not bytes.
	assert.Equal(t, 1, c.Count("日本語語"))
}

func TestSplitter_FitsInOnePage(t *testing.T) {
	s := NewSplitter(100)
	pages := s.Split("short text")
	require.Len(t, pages, 1)
	assert.Equal(t, "short text", pages[0])
}

func TestSplitter_SplitsOnLineBoundaries(t *testing.T) {
	line := strings.Repeat("x", 40) // 10 tokens per line
	text := strings.Join([]string{line, line, line, line}, "\n")

	s := NewSplitter(25)
	pages := s.Split(text)

	require.Len(t, pages, 2)
	for _, page := range pages {
		assert.LessOrEqual(t, NewEstimatingCounter().Count(page), 25)
	}
	assert.Equal(t, text, strings.Join(pages, "\n"))
}

func TestSplitter_HardSplitsOversizedLine(t *testing.T) {
	s := NewSplitter(10) // 40 runes per page
	text := strings.Repeat("a", 100)

	pages := s.Split(text)
	require.Len(t, pages, 3)
	assert.Equal(t, text, strings.Join(pages, ""))
}

func TestSplitter_HardSplitRuneSafe(t *testing.T) {
	s := NewSplitter(10)
	text := strings.Repeat("語", 100)

	for _, page := range s.Split(text) {
		assert.True(t, utf8.ValidString(page))
	}
}

func TestSplitter_SplitBlocks(t *testing.T) {
	block := strings.Repeat("b", 60) // 15 tokens per block

	tests := []struct {
		name      string
		blocks    []string
		maxTokens int
		wantPages int
	}{
		{"empty", nil, 100, 1},
		{"all fit", []string{block, block}, 100, 1},
		{"one per page", []string{block, block, block}, 16, 3},
		{"two per page", []string{block, block, block, block}, 31, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := NewSplitter(tt.maxTokens).SplitBlocks(tt.blocks)
			assert.Len(t, pages, tt.wantPages)
		})
	}
}

func TestSplitter_SplitBlocksKeepsBlocksIntact(t *testing.T) {
	blocks := []string{"first block", "second block", strings.Repeat("z", 200)}

	s := NewSplitter(20)
	pages := s.SplitBlocks(blocks)

	joined := strings.Join(pages, "")
	for _, b := range blocks[:2] {
		found := false
		for _, page := range pages {
			if strings.Contains(page, b) {
				found = true
				break
			}
		}
		assert.True(t, found, "block %q should appear whole on one page", b)
	}
	assert.Contains(t, joined, "first block")
}

func TestSplitter_DefaultBudget(t *testing.T) {
	assert.Equal(t, DefaultMaxTokens, NewSplitter(0).MaxTokens())
	assert.Equal(t, 42, NewSplitter(42).MaxTokens())
}
