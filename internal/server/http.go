package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

const (
	// DefaultHTTPAddr listens on all interfaces, port 9000.
	DefaultHTTPAddr = "0.0.0.0:9000"

	// DefaultMCPPath is where the streamable HTTP endpoint is mounted.
	DefaultMCPPath = "/"
)

var reservedPaths = map[string]bool{
	"/health":           true,
	"/healthz":          true,
	"/readyz":           true,
	"/healthz/detailed": true,
}

// HTTPServerConfig configures the streamable HTTP transport.
type HTTPServerConfig struct {
	// Addr is the listen address (default: 0.0.0.0:9000).
	Addr string

	// MCPPath is the endpoint path for MCP requests (default: "/").
	MCPPath string

	// Version is reported by /healthz/detailed.
	Version string
}

// HTTPServer exposes the MCP server over streamable HTTP next to the health endpoints.
type HTTPServer struct {
	mcpServer     *mcpserver.MCPServer
	serverContext *ServerContext
	health        *HealthChecker
	config        HTTPServerConfig
	httpServer    *http.Server
}

// NewHTTPServer validates the configuration and builds the router.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, sc *ServerContext, config HTTPServerConfig) (*HTTPServer, error) {
	if mcpServer == nil {
		return nil, errors.New("mcp server is required")
	}
	if config.Addr == "" {
		config.Addr = DefaultHTTPAddr
	}
	if config.MCPPath == "" {
		config.MCPPath = DefaultMCPPath
	}
	if !strings.HasPrefix(config.MCPPath, "/") {
		return nil, fmt.Errorf("mcp path %q must start with '/'", config.MCPPath)
	}
	if reservedPaths[config.MCPPath] {
		return nil, fmt.Errorf("mcp path %q collides with a health endpoint", config.MCPPath)
	}

	s := &HTTPServer{
		mcpServer:     mcpServer,
		serverContext: sc,
		health:        NewHealthChecker(sc, config.Version),
		config:        config,
	}

	s.httpServer = &http.Server{
		Addr:              config.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
		// No WriteTimeout: streamable responses may hold the connection open.
		IdleTimeout: 120 * time.Second,
	}

	return s, nil
}

func (s *HTTPServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.metricsMiddleware)

	s.health.RegisterHealthEndpoints(r)

	streamable := mcpserver.NewStreamableHTTPServer(s.mcpServer,
		mcpserver.WithEndpointPath(s.config.MCPPath),
		mcpserver.WithHTTPContextFunc(HTTPContextFunc),
	)
	r.Handle(s.config.MCPPath, streamable)

	return r
}

// metricsMiddleware records every request under its route pattern so that
// unmatched paths do not create new series.
func (s *HTTPServer) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}

		if s.serverContext != nil {
			s.serverContext.Metrics().RecordHTTPRequest(r.Context(), r.Method, path, status, time.Since(start))
		}
		slog.Debug("http request",
			"method", r.Method,
			"path", path,
			"status", status,
			"request_id", middleware.GetReqID(r.Context()),
			"duration", time.Since(start),
		)
	})
}

// Handler returns the router, for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the configured listen address.
func (s *HTTPServer) Addr() string {
	return s.config.Addr
}

// Start listens and serves until Shutdown. A clean shutdown returns nil.
func (s *HTTPServer) Start() error {
	slog.Info("starting MCP HTTP server", "addr", s.config.Addr, "mcp_path", s.config.MCPPath)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown marks the server not ready and drains open connections.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)
	slog.Info("shutting down MCP HTTP server")
	return s.httpServer.Shutdown(ctx)
}
