package mcptool

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func pingTool() mcp.Tool {
	return mcp.NewTool("ping",
		mcp.WithDescription("Echo test to verify the server is responding."),
		mcp.WithString("message",
			mcp.Description("Optional message to echo back."),
			mcp.DefaultString("pong"),
		),
	)
}

func (s *Server) handlePing(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message := "pong"
	if m, ok := req.Params.Arguments["message"].(string); ok && m != "" {
		message = m
	}
	return mcp.NewToolResultText(message), nil
}
