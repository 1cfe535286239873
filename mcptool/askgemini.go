package mcptool

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"geminimcp/gemini"
)

// responseLabel prefixes every plain (non-changeMode) response.
const responseLabel = "Gemini response:"

// emptyPromptMessage is the fixed rejection for blank prompts.
const emptyPromptMessage = "prompt cannot be empty"

const askGeminiDescription = "Ask Google Gemini via the Gemini CLI. " +
	"Use sandbox for risky operations, changeMode for structured edit suggestions. " +
	"Large changeMode answers are chunked; pass chunkCacheKey and chunkIndex to retrieve later chunks without re-running."

// askGeminiArgs is the ask-gemini argument schema.
type askGeminiArgs struct {
	// Prompt is required; everything else is optional with defaults.
	Prompt        string  `json:"prompt" jsonschema:"description=Question or task for Gemini"`
	Model         string  `json:"model,omitempty" jsonschema:"enum=gemini-2.5-pro,enum=gemini-2.5-flash,enum=gemini-2.5-flash-lite,default=gemini-2.5-pro,description=Gemini model to use"`
	Sandbox       bool    `json:"sandbox,omitempty" jsonschema:"default=false,description=Run in the CLI's isolated sandbox mode"`
	ChangeMode    bool    `json:"changeMode,omitempty" jsonschema:"default=false,description=Return structured OLD/NEW edit suggestions instead of free text"`
	ChunkIndex    FlexInt `json:"chunkIndex,omitempty" jsonschema:"description=1-based chunk to return for a chunked response"`
	ChunkCacheKey string  `json:"chunkCacheKey,omitempty" jsonschema:"description=Cache key from a previous chunked changeMode response"`
}

func askGeminiTool() mcp.Tool {
	return mcp.NewToolWithRawSchema("ask-gemini", askGeminiDescription, mustSchema(&askGeminiArgs{}))
}

// handleAskGemini validates the request and dispatches: cached-chunk
// retrieval when changeMode supplies both chunkIndex and chunkCacheKey,
// fresh CLI execution otherwise. At most one CLI invocation per call.
func (s *Server) handleAskGemini(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log := s.log.With(
		slogTool("ask-gemini"),
		slogRequestID(uuid.NewString()),
	)

	var args askGeminiArgs
	if err := decodeArgs(req.Params.Arguments, &args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}

	prompt := strings.TrimSpace(args.Prompt)
	if prompt == "" {
		return mcp.NewToolResultError(emptyPromptMessage), nil
	}

	model, ok := gemini.Normalize(args.Model)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown model %q (known: %s)",
			args.Model, strings.Join(gemini.Known(), ", "))), nil
	}
	if args.ChunkIndex < 0 {
		return mcp.NewToolResultError("chunkIndex must be a positive integer"), nil
	}
	index := int(args.ChunkIndex)

	// Continuation of an already-computed answer: serve from cache, never
	// re-run the CLI. A half-specified continuation (key without index or
	// vice versa) falls through to fresh execution.
	if args.ChangeMode && index > 0 && args.ChunkCacheKey != "" {
		log.Info("serving cached chunk",
			"cache_key", args.ChunkCacheKey,
			"chunk_index", index)
		out, err := s.formatter.Format("", index, args.ChunkCacheKey, prompt)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}

	log.Info("running gemini CLI",
		"model", string(model),
		"sandbox", args.Sandbox,
		"change_mode", args.ChangeMode)

	raw, err := s.exec.Run(ctx, gemini.Request{
		Prompt:     prompt,
		Model:      model,
		Sandbox:    args.Sandbox,
		ChangeMode: args.ChangeMode,
	})
	if err != nil {
		// Executor failures propagate unchanged.
		return nil, err
	}

	if args.ChangeMode {
		out, err := s.formatter.Format(raw, index, "", prompt)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}

	return mcp.NewToolResultText(responseLabel + "\n\n" + raw), nil
}
