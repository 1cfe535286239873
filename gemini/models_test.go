package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Model
		wantOK bool
	}{
		{"empty uses default", "", DefaultModel, true},
		{"exact pro", "gemini-2.5-pro", ModelPro, true},
		{"exact flash", "gemini-2.5-flash", ModelFlash, true},
		{"exact flash-lite", "gemini-2.5-flash-lite", ModelFlashLite, true},
		{"alias pro", "pro", ModelPro, true},
		{"alias flash", "flash", ModelFlash, true},
		{"alias flash-lite", "flash-lite", ModelFlashLite, true},
		{"alias lite", "lite", ModelFlashLite, true},
		{"mixed case", "Gemini-2.5-Pro", ModelPro, true},
		{"surrounding space", "  flash  ", ModelFlash, true},
		{"unknown", "gpt-4o", Model("gpt-4o"), false},
		{"garbage", "not-a-model", Model("not-a-model"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestKnown(t *testing.T) {
	names := Known()
	assert.Contains(t, names, string(DefaultModel))
	assert.Len(t, names, 3)
}
