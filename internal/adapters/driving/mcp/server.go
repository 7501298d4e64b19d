package mcp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/opencivics/engage/internal/pipelines"
)

// Version is the server version reported to MCP clients.
var Version = "0.1.0"

// Server wraps an MCP server exposing engage summaries.
type Server struct {
	ports      *Ports
	configName string
	server     *mcp.Server
}

// NewServer creates an MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}

	s := &Server{ports: ports, configName: ports.ConfigName}
	if s.configName == "" {
		s.configName = pipelines.Concise
	}

	impl := &mcp.Implementation{
		Name:    "engage",
		Version: Version,
	}
	s.server = mcp.NewServer(impl, nil)

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run starts the server on stdio transport, blocking until the context
// is canceled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the server on a streamable HTTP transport at the given
// address, blocking until the context is canceled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
