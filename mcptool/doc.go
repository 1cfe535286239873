// Package mcptool exposes the Gemini CLI over the Model Context Protocol.
//
// Server registers four tools on an MCP stdio server:
//
//   - ask-gemini: validate arguments, then either serve a cached chunk of an
//     earlier changeMode answer (no CLI invocation) or run the CLI and format
//     the result
//   - fetch-chunk: page through a cached oversized answer
//   - ping: connectivity check
//   - help: Gemini CLI help text
//
// Input schemas for ask-gemini and fetch-chunk are generated from Go structs
// with invopop/jsonschema; chunkIndex accepts a number or a numeric string
// and is normalized to an int at the boundary.
package mcptool
