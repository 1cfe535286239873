package gemini

import "strings"

// Model identifies a Gemini model as accepted by the CLI's -m flag.
type Model string

// Known Gemini models.
const (
	ModelPro       Model = "gemini-2.5-pro"
	ModelFlash     Model = "gemini-2.5-flash"
	ModelFlashLite Model = "gemini-2.5-flash-lite"
)

// DefaultModel is used when a request does not name a model.
const DefaultModel = ModelPro

var knownModels = []Model{ModelPro, ModelFlash, ModelFlashLite}

// Known returns the names of all models in the catalog.
func Known() []string {
	names := make([]string, len(knownModels))
	for i, m := range knownModels {
		names[i] = string(m)
	}
	return names
}

// Normalize maps a user-supplied model name onto the catalog. The empty
// string yields DefaultModel. Short aliases ("pro", "flash", "flash-lite")
// and full identifiers are accepted; ok is false for anything else.
func Normalize(name string) (Model, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultModel, true
	}

	for _, m := range knownModels {
		if name == string(m) {
			return m, true
		}
	}

	// Aliases. Order matters: "flash-lite" contains "flash".
	switch {
	case strings.Contains(name, "flash-lite") || strings.Contains(name, "lite"):
		return ModelFlashLite, true
	case strings.Contains(name, "flash"):
		return ModelFlash, true
	case strings.Contains(name, "pro"):
		return ModelPro, true
	}

	return Model(name), false
}
