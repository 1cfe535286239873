package mcptool

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func helpTool() mcp.Tool {
	return mcp.NewTool("help",
		mcp.WithDescription("Show the Gemini CLI help text."),
	)
}

func (s *Server) handleHelp(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := s.exec.Help(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}
