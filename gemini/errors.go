package gemini

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for runner operations.
var (
	// ErrEmptyPrompt indicates a request with no prompt text.
	ErrEmptyPrompt = errors.New("prompt is empty")

	// ErrUnknownModel indicates a model name outside the catalog.
	ErrUnknownModel = errors.New("unknown model")
)

// Error wraps a failed CLI invocation with context.
type Error struct {
	Op        string // Operation that failed ("run", "help")
	Err       error  // Underlying error
	Retryable bool   // Whether the failure is likely transient
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("gemini %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a runner error.
func NewError(op string, err error, retryable bool) *Error {
	return &Error{Op: op, Err: err, Retryable: retryable}
}

// IsRetryable reports whether an error is likely transient.
func IsRetryable(err error) bool {
	var runErr *Error
	if errors.As(err, &runErr) {
		return runErr.Retryable
	}
	return false
}

// isRetryableMessage checks stderr text for transient failure patterns.
func isRetryableMessage(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "timeout") ||
		strings.Contains(lower, "overloaded") ||
		strings.Contains(lower, "quota") ||
		strings.Contains(lower, "503") ||
		strings.Contains(lower, "429")
}

// maxStderrLength limits stderr output in error messages to keep errors
// readable and avoid leaking large dumps.
const maxStderrLength = 500

// sanitizeStderr prepares stderr output for inclusion in error messages.
func sanitizeStderr(stderr string) string {
	if len(stderr) > maxStderrLength {
		stderr = stderr[:maxStderrLength] + "... (truncated)"
	}
	return strings.TrimSpace(stderr)
}
