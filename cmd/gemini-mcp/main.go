// Command gemini-mcp serves Gemini CLI tools over MCP stdio.
//
// Logs go to stderr; stdout belongs to the MCP transport.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"geminimcp/changemode"
	"geminimcp/chunk"
	"geminimcp/gemini"
	"geminimcp/mcptool"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	model := flag.String("model", "", "default Gemini model (overrides config)")
	timeout := flag.Duration("timeout", 0, "per-request timeout (overrides config)")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn, error")
	watchConfig := flag.Bool("watch-config", false, "reload the config file on change")
	flag.Parse()

	cfg := gemini.DefaultConfig()
	if *configPath != "" {
		loaded, err := gemini.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	cfg.LoadFromEnv()
	if *model != "" {
		cfg.Model = *model
	}
	if *timeout > 0 {
		cfg.Timeout = gemini.Duration(*timeout)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	runner := gemini.NewRunner(cfg.RunnerOptions()...)

	cache := chunk.NewCache(
		chunk.WithTTL(time.Duration(cfg.Cache.TTL)),
		chunk.WithMaxEntries(cfg.Cache.MaxEntries),
	)
	defer cache.Close()

	formatter := changemode.NewFormatter(cache, changemode.WithMaxTokens(cfg.MaxChunkTokens))
	srv := mcptool.New(runner, formatter, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *watchConfig && *configPath != "" {
		go func() {
			if err := gemini.WatchConfig(ctx, *configPath, logger, runner.Apply); err != nil && ctx.Err() == nil {
				logger.Warn("config watcher stopped", slog.Any("error", err))
			}
		}()
	}

	logger.Info("gemini-mcp serving on stdio",
		slog.String("model", cfg.Model),
		slog.Duration("timeout", time.Duration(cfg.Timeout)))

	if err := srv.ServeStdio(); err != nil {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}
