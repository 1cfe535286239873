package mcptool

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"geminimcp/gemini"
)

// Server metadata reported to MCP hosts.
const (
	serverName    = "gemini-mcp"
	serverVersion = "0.3.0"
)

// Executor runs the Gemini CLI. Satisfied by *gemini.Runner.
type Executor interface {
	Run(ctx context.Context, req gemini.Request) (string, error)
	Help(ctx context.Context) (string, error)
}

// Formatter produces changeMode responses. Satisfied by
// *changemode.Formatter.
type Formatter interface {
	// Format renders raw output (or, when cacheKey is set, a cached page)
	// into the response text. chunkIndex is 1-based; values below 1 mean
	// the first page.
	Format(raw string, chunkIndex int, cacheKey, prompt string) (string, error)
}

// Server wires the tool handlers onto an MCP stdio server.
type Server struct {
	mcp       *server.MCPServer
	exec      Executor
	formatter Formatter
	log       *slog.Logger
}

// New creates a server with all tools registered.
func New(exec Executor, formatter Formatter, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		exec:      exec,
		formatter: formatter,
		log:       log,
	}

	m := server.NewMCPServer(serverName, serverVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	m.AddTool(askGeminiTool(), s.handleAskGemini)
	m.AddTool(fetchChunkTool(), s.handleFetchChunk)
	m.AddTool(pingTool(), s.handlePing)
	m.AddTool(helpTool(), s.handleHelp)
	s.mcp = m
	return s
}

// ServeStdio serves MCP over stdin/stdout until EOF.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func slogTool(name string) slog.Attr {
	return slog.String("tool", name)
}

func slogRequestID(id string) slog.Attr {
	return slog.String("request_id", id)
}
