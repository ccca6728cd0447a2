package mcp

import (
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/user/seo-meta-service/internal/lifecycle"
)

// Name and Version identify this server to MCP clients.
const (
	Name    = "seo-meta-service"
	Version = "1.0.0"
)

// MCPServer exposes tag generation as an MCP tool.
type MCPServer struct {
	runner    lifecycle.Runner
	logger    *zap.Logger
	mcpServer *server.MCPServer
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(runner lifecycle.Runner, logger *zap.Logger) *MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &MCPServer{runner: runner, logger: logger}

	s.mcpServer = server.NewMCPServer(
		Name,
		Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.registerTools()
	return s
}

// Server returns the underlying MCP server
func (s *MCPServer) Server() *server.MCPServer {
	return s.mcpServer
}

// HTTPHandler serves the streamable HTTP transport.
func (s *MCPServer) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcpServer)
}
