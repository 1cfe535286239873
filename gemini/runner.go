package gemini

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"

	"geminimcp/changemode"
)

// DefaultTimeout bounds a single CLI invocation.
const DefaultTimeout = 5 * time.Minute

// Request describes one CLI invocation.
type Request struct {
	// Prompt is the user's question or task. Must be non-empty.
	Prompt string

	// Model selects the Gemini model. Empty uses the runner default.
	Model Model

	// Sandbox runs the CLI in its isolated execution mode (-s).
	Sandbox bool

	// ChangeMode wraps the prompt with strict edit-format instructions so
	// the response can be parsed into structured edits.
	ChangeMode bool
}

// Runner invokes the Gemini CLI binary.
type Runner struct {
	mu      sync.RWMutex
	path    string
	model   Model
	workdir string
	timeout time.Duration
	env     map[string]string

	group singleflight.Group
}

// Option configures a Runner.
type Option func(*Runner)

// WithPath sets the path to the gemini binary.
func WithPath(path string) Option {
	return func(r *Runner) { r.path = path }
}

// WithModel sets the default model.
func WithModel(model Model) Option {
	return func(r *Runner) { r.model = model }
}

// WithWorkdir sets the working directory for CLI invocations.
func WithWorkdir(dir string) Option {
	return func(r *Runner) { r.workdir = dir }
}

// WithTimeout sets the per-invocation timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// WithEnv adds environment variables to the CLI process.
func WithEnv(env map[string]string) Option {
	return func(r *Runner) {
		if r.env == nil {
			r.env = make(map[string]string, len(env))
		}
		for k, v := range env {
			r.env[k] = v
		}
	}
}

// NewRunner creates a runner. Assumes "gemini" is on PATH unless overridden
// with WithPath.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		path:    "gemini",
		model:   DefaultModel,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Apply updates the runner's defaults from a config. Used for hot reload;
// safe to call while requests are in flight.
func (r *Runner) Apply(cfg Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cfg.Model != "" {
		if m, ok := Normalize(cfg.Model); ok {
			r.model = m
		}
	}
	if cfg.GeminiPath != "" {
		r.path = cfg.GeminiPath
	}
	if cfg.Timeout > 0 {
		r.timeout = time.Duration(cfg.Timeout)
	}
	if cfg.WorkDir != "" {
		r.workdir = cfg.WorkDir
	}
}

// Run executes the CLI for the given request and returns its text output.
// Identical concurrent requests are coalesced into one invocation; the
// shared invocation runs under the first caller's context.
func (r *Runner) Run(ctx context.Context, req Request) (string, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return "", NewError("run", ErrEmptyPrompt, false)
	}

	model := req.Model
	if model == "" {
		r.mu.RLock()
		model = r.model
		r.mu.RUnlock()
	}
	if req.ChangeMode {
		prompt = changemode.WrapPrompt(prompt)
	}

	key := requestKey(model, prompt, req.Sandbox)
	out, err, _ := r.group.Do(key, func() (any, error) {
		return r.execute(ctx, model, prompt, req.Sandbox)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

// Help returns the CLI's --help output.
func (r *Runner) Help(ctx context.Context) (string, error) {
	r.mu.RLock()
	path, timeout := r.path, r.timeout
	r.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path, "--help")
	r.setupCmd(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Stdin = nil

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", NewError("help", ctx.Err(), false)
		}
		return "", NewError("help", fmt.Errorf("%w: %s", err, sanitizeStderr(stderr.String())), false)
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (r *Runner) execute(ctx context.Context, model Model, prompt string, sandbox bool) (string, error) {
	r.mu.RLock()
	path, timeout := r.path, r.timeout
	r.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := buildArgs(model, prompt, sandbox)
	start := time.Now()

	cmd := exec.CommandContext(ctx, path, args...)
	r.setupCmd(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Stdin = nil // /dev/null, prevents TTY/raw mode errors

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", NewError("run", ctx.Err(), false)
		}
		errMsg := sanitizeStderr(stderr.String())
		return "", NewError("run", fmt.Errorf("%w: %s", err, errMsg), isRetryableMessage(errMsg))
	}

	slog.Debug("gemini CLI finished",
		slog.String("model", string(model)),
		slog.Bool("sandbox", sandbox),
		slog.Duration("duration", time.Since(start)))

	return strings.TrimSpace(stdout.String()), nil
}

// setupCmd configures working directory and environment.
func (r *Runner) setupCmd(cmd *exec.Cmd) {
	r.mu.RLock()
	workdir, env := r.workdir, r.env
	r.mu.RUnlock()

	if workdir != "" {
		cmd.Dir = workdir
	}
	// Leave Env nil to inherit the parent environment unchanged.
	if len(env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range env {
			cmd.Env = setEnvVar(cmd.Env, k, v)
		}
	}
}

// setEnvVar updates or adds an environment variable in an env slice.
func setEnvVar(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}

// buildArgs constructs CLI arguments for a single invocation.
func buildArgs(model Model, prompt string, sandbox bool) []string {
	var args []string
	if model != "" {
		args = append(args, "-m", string(model))
	}
	if sandbox {
		args = append(args, "-s")
	}
	return append(args, "-p", prompt)
}

// requestKey derives a coalescing key from the request tuple.
func requestKey(model Model, prompt string, sandbox bool) string {
	h := xxhash.New()
	_, _ = h.WriteString(string(model))
	_, _ = h.Write([]byte{0})
	if sandbox {
		_, _ = h.Write([]byte{1})
	}
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(prompt)
	return strconv.FormatUint(h.Sum64(), 16)
}
