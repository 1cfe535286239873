package gemini

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name    string
		model   Model
		prompt  string
		sandbox bool
		want    []string
	}{
		{
			name:   "model and prompt",
			model:  ModelPro,
			prompt: "hello",
			want:   []string{"-m", "gemini-2.5-pro", "-p", "hello"},
		},
		{
			name:    "sandbox flag",
			model:   ModelFlash,
			prompt:  "risky task",
			sandbox: true,
			want:    []string{"-m", "gemini-2.5-flash", "-s", "-p", "risky task"},
		},
		{
			name:   "no model",
			prompt: "q",
			want:   []string{"-p", "q"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildArgs(tt.model, tt.prompt, tt.sandbox))
		})
	}
}

func TestRequestKey(t *testing.T) {
	base := requestKey(ModelPro, "prompt", false)

	assert.Equal(t, base, requestKey(ModelPro, "prompt", false))
	assert.NotEqual(t, base, requestKey(ModelFlash, "prompt", false))
	assert.NotEqual(t, base, requestKey(ModelPro, "other", false))
	assert.NotEqual(t, base, requestKey(ModelPro, "prompt", true))
}

func TestRunner_EmptyPrompt(t *testing.T) {
	r := NewRunner()
	_, err := r.Run(context.Background(), Request{Prompt: "   \n\t "})
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}

// fakeGemini writes a shell script standing in for the gemini binary.
func fakeGemini(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-gemini")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return path
}

func TestRunner_Run(t *testing.T) {
	path := fakeGemini(t, `printf '%s\n' "$@"`)
	r := NewRunner(WithPath(path))

	out, err := r.Run(context.Background(), Request{Prompt: "hi there"})
	require.NoError(t, err)

	assert.Contains(t, out, "-m\ngemini-2.5-pro")
	assert.Contains(t, out, "-p\nhi there")
	assert.NotContains(t, out, "-s")
}

func TestRunner_RunSandbox(t *testing.T) {
	path := fakeGemini(t, `printf '%s\n' "$@"`)
	r := NewRunner(WithPath(path), WithModel(ModelFlash))

	out, err := r.Run(context.Background(), Request{Prompt: "hi", Sandbox: true})
	require.NoError(t, err)

	assert.Contains(t, out, "-m\ngemini-2.5-flash")
	assert.Contains(t, out, "-s")
}

func TestRunner_ChangeModeWrapsPrompt(t *testing.T) {
	path := fakeGemini(t, `printf '%s\n' "$@"`)
	r := NewRunner(WithPath(path))

	out, err := r.Run(context.Background(), Request{Prompt: "rename foo", ChangeMode: true})
	require.NoError(t, err)

	assert.Contains(t, out, "Request: rename foo")
	assert.Contains(t, out, "**FILE:")
}

func TestRunner_Failure(t *testing.T) {
	path := fakeGemini(t, `echo "rate limit exceeded" >&2; exit 3`)
	r := NewRunner(WithPath(path))

	_, err := r.Run(context.Background(), Request{Prompt: "hi"})
	require.Error(t, err)

	var runErr *Error
	require.True(t, errors.As(err, &runErr))
	assert.Equal(t, "run", runErr.Op)
	assert.True(t, IsRetryable(err))
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestRunner_FatalFailureNotRetryable(t *testing.T) {
	path := fakeGemini(t, `echo "invalid api key" >&2; exit 1`)
	r := NewRunner(WithPath(path))

	_, err := r.Run(context.Background(), Request{Prompt: "hi"})
	require.Error(t, err)
	assert.False(t, IsRetryable(err))
}

func TestRunner_Timeout(t *testing.T) {
	path := fakeGemini(t, `sleep 5; echo done`)
	r := NewRunner(WithPath(path), WithTimeout(50*time.Millisecond))

	_, err := r.Run(context.Background(), Request{Prompt: "hi"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunner_CoalescesIdenticalRequests(t *testing.T) {
	dir := t.TempDir()
	countFile := filepath.Join(dir, "count")
	path := fakeGemini(t, `echo x >> "$COUNT_FILE"; sleep 0.5; echo done`)
	r := NewRunner(WithPath(path), WithEnv(map[string]string{"COUNT_FILE": countFile}))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := r.Run(context.Background(), Request{Prompt: "same prompt"})
			assert.NoError(t, err)
			assert.Equal(t, "done", out)
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(countFile)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "x"), "identical requests should share one invocation")
}

func TestRunner_Help(t *testing.T) {
	path := fakeGemini(t, `[ "$1" = "--help" ] && echo "usage: gemini"`)
	r := NewRunner(WithPath(path))

	out, err := r.Help(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "usage: gemini", out)
}

func TestRunner_Apply(t *testing.T) {
	path := fakeGemini(t, `printf '%s\n' "$@"`)
	r := NewRunner(WithPath(path))

	r.Apply(Config{Model: "flash", Timeout: Duration(time.Minute)})

	out, err := r.Run(context.Background(), Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.Contains(t, out, "-m\ngemini-2.5-flash")
}
