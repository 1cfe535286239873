// Package geminimcp implements an MCP (Model Context Protocol) server that
// delegates questions to the Gemini CLI.
//
// The server speaks MCP over stdio and exposes a small set of tools to the
// host (Claude Desktop, editors, agent frameworks):
//
//   - ask-gemini: forward a prompt to the gemini binary, optionally in
//     sandbox mode, optionally in changeMode for structured edit suggestions
//   - fetch-chunk: retrieve a later page of a cached oversized answer
//   - ping: connectivity check
//   - help: show the Gemini CLI help text
//
// Subpackages:
//
//   - gemini: subprocess wrapper for the Gemini CLI, model catalog, config
//   - changemode: structured edit parsing and chunked formatting
//   - chunk: in-memory TTL cache and token-estimating pagination
//   - mcptool: the MCP tool surface wiring everything together
//
// The binary lives in cmd/gemini-mcp:
//
//	gemini-mcp -model gemini-2.5-pro -timeout 5m
//
// Requires the Gemini CLI on PATH:
//
//	npm install -g @google/gemini-cli
package geminimcp
