package chunk

import "unicode/utf8"

// DefaultCharsPerToken is the approximate character-to-token ratio used for
// estimation. Roughly 4 characters equals 1 token for English text.
const DefaultCharsPerToken = 4.0

// Counter estimates token counts for text.
type Counter interface {
	// Count estimates the number of tokens in the given text.
	Count(text string) int

	// FitsInLimit reports whether the text fits within the token limit.
	FitsInLimit(text string, limit int) bool
}

// EstimatingCounter estimates tokens from rune counts using a fixed ratio.
type EstimatingCounter struct {
	// CharsPerToken is the average characters per token. Zero or negative
	// falls back to DefaultCharsPerToken.
	CharsPerToken float64
}

// NewEstimatingCounter creates a counter with the default ratio.
func NewEstimatingCounter() *EstimatingCounter {
	return &EstimatingCounter{CharsPerToken: DefaultCharsPerToken}
}

// Count estimates the number of tokens in the given text.
func (c *EstimatingCounter) Count(text string) int {
	ratio := c.CharsPerToken
	if ratio <= 0 {
		ratio = DefaultCharsPerToken
	}
	runes := utf8.RuneCountInString(text)
	return int(float64(runes)/ratio + 0.5)
}

// FitsInLimit reports whether the text fits within the token limit.
func (c *EstimatingCounter) FitsInLimit(text string, limit int) bool {
	return c.Count(text) <= limit
}
