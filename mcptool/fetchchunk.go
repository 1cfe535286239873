package mcptool

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

const fetchChunkDescription = "Retrieve a chunk of a previously cached changeMode response " +
	"by cache key and 1-based index. Does not re-run the Gemini CLI."

// fetchChunkArgs is the fetch-chunk argument schema. Both fields are
// required.
type fetchChunkArgs struct {
	CacheKey   string  `json:"cacheKey" jsonschema:"description=Cache key returned by a chunked response"`
	ChunkIndex FlexInt `json:"chunkIndex" jsonschema:"description=1-based index of the chunk to fetch"`
}

func fetchChunkTool() mcp.Tool {
	return mcp.NewToolWithRawSchema("fetch-chunk", fetchChunkDescription, mustSchema(&fetchChunkArgs{}))
}

func (s *Server) handleFetchChunk(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log := s.log.With(
		slogTool("fetch-chunk"),
		slogRequestID(uuid.NewString()),
	)

	var args fetchChunkArgs
	if err := decodeArgs(req.Params.Arguments, &args); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.CacheKey == "" {
		return mcp.NewToolResultError("cacheKey is required"), nil
	}
	if args.ChunkIndex < 1 {
		return mcp.NewToolResultError("chunkIndex must be >= 1"), nil
	}

	log.Info("fetching chunk", "cache_key", args.CacheKey, "chunk_index", int(args.ChunkIndex))

	out, err := s.formatter.Format("", int(args.ChunkIndex), args.CacheKey, "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}
