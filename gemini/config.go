package gemini

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings ("5m", "90s")
// or plain integers (seconds).
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var secs int64
	if err := value.Decode(&secs); err != nil {
		return fmt.Errorf("duration must be a string or integer seconds")
	}
	*d = Duration(time.Duration(secs) * time.Second)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// CacheConfig configures the chunk cache.
type CacheConfig struct {
	// TTL is how long cached page sets live. Default: 10m.
	TTL Duration `yaml:"ttl"`

	// MaxEntries bounds the number of cached page sets. Default: 64.
	MaxEntries int `yaml:"max_entries"`
}

// Config holds the server configuration. Zero values use defaults.
type Config struct {
	// Model is the default Gemini model. Default: gemini-2.5-pro.
	Model string `yaml:"model"`

	// GeminiPath is the path to the gemini binary. Default: "gemini" via PATH.
	GeminiPath string `yaml:"gemini_path"`

	// Timeout bounds each CLI invocation. Default: 5m.
	Timeout Duration `yaml:"timeout"`

	// WorkDir is the working directory for CLI invocations.
	WorkDir string `yaml:"work_dir"`

	// Env provides additional environment variables for the CLI process.
	Env map[string]string `yaml:"env"`

	// LogLevel is one of debug, info, warn, error. Default: info.
	LogLevel string `yaml:"log_level"`

	// MaxChunkTokens is the per-response token budget before changeMode
	// output is paginated. Default: 5000.
	MaxChunkTokens int `yaml:"max_chunk_tokens"`

	// Cache configures the chunk cache.
	Cache CacheConfig `yaml:"cache"`
}

// DefaultConfig returns a Config with defaults filled in.
func DefaultConfig() Config {
	return Config{
		Model:    string(DefaultModel),
		Timeout:  Duration(DefaultTimeout),
		LogLevel: "info",
	}
}

// Load reads a YAML config file. Fields absent from the file keep their
// defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadFromEnv overrides config fields from GEMINI_MCP_* environment
// variables.
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("GEMINI_MCP_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("GEMINI_MCP_PATH"); v != "" {
		c.GeminiPath = v
	}
	if v := os.Getenv("GEMINI_MCP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = Duration(d)
		}
	}
	if v := os.Getenv("GEMINI_MCP_WORK_DIR"); v != "" {
		c.WorkDir = v
	}
	if v := os.Getenv("GEMINI_MCP_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if _, ok := Normalize(c.Model); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownModel, c.Model)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be >= 0, got %v", time.Duration(c.Timeout))
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must be >= 0, got %v", time.Duration(c.Cache.TTL))
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache max_entries must be >= 0, got %d", c.Cache.MaxEntries)
	}
	if c.MaxChunkTokens < 0 {
		return fmt.Errorf("max_chunk_tokens must be >= 0, got %d", c.MaxChunkTokens)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level: %s (valid: debug, info, warn, error)", c.LogLevel)
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// RunnerOptions converts the config to runner options.
func (c *Config) RunnerOptions() []Option {
	opts := make([]Option, 0, 5)
	if m, ok := Normalize(c.Model); ok {
		opts = append(opts, WithModel(m))
	}
	if c.GeminiPath != "" {
		opts = append(opts, WithPath(c.GeminiPath))
	}
	if c.Timeout > 0 {
		opts = append(opts, WithTimeout(time.Duration(c.Timeout)))
	}
	if c.WorkDir != "" {
		opts = append(opts, WithWorkdir(c.WorkDir))
	}
	if len(c.Env) > 0 {
		opts = append(opts, WithEnv(c.Env))
	}
	return opts
}
