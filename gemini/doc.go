// Package gemini wraps the Gemini CLI binary for non-interactive use.
//
// The Gemini CLI is Google's AI coding assistant available via npm:
//
//	npm install -g @google/gemini-cli
//
// Runner shells out to the binary with a single prompt (-p), an optional
// model (-m) and optional sandbox mode (-s), and returns the text response.
// Identical concurrent requests share one process invocation.
//
//	runner := gemini.NewRunner(
//	    gemini.WithModel(gemini.ModelPro),
//	    gemini.WithTimeout(5*time.Minute),
//	)
//	out, err := runner.Run(ctx, gemini.Request{Prompt: "explain this repo"})
//
// The package also carries the model catalog (Normalize, Known) and the
// server configuration (Config, Load, WatchConfig).
package gemini
