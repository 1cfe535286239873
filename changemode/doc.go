// Package changemode turns free-form Gemini CLI output into structured,
// machine-applicable edit suggestions.
//
// In changeMode the prompt sent to the CLI is wrapped with strict formatting
// instructions (see WrapPrompt) so the model answers with edit blocks:
//
//	**FILE: path/to/file.go:42**
//	```old
//	exact lines being replaced
//	```
//	```new
//	replacement lines
//	```
//
// ParseEdits extracts these blocks, and Formatter renders them into a
// paginated response. Output exceeding the per-response budget is split on
// edit boundaries and cached, so follow-up calls can page through the rest
// without re-running the CLI.
package changemode
