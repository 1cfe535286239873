// Package chunk provides pagination and caching for oversized tool responses.
//
// MCP hosts truncate or reject very large tool results, so responses that
// exceed a per-response token budget are split into pages ("chunks") and
// parked in an in-memory cache. The caller receives the first page plus a
// cache key, and fetches later pages by (key, index) without re-running the
// underlying command.
//
// Token counts are estimated at ~4 characters per token; the goal is a
// stable page size, not tokenizer-exact accounting.
package chunk
