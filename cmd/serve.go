package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"

	"github.com/teemow/groupsmcp/internal/directory"
	"github.com/teemow/groupsmcp/internal/instrumentation"
	"github.com/teemow/groupsmcp/internal/logging"
	"github.com/teemow/groupsmcp/internal/server"
)

const (
	transportStdio          = "stdio"
	transportStreamableHTTP = "streamable-http"

	defaultPort = 9000
	listenHost  = "0.0.0.0"
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

// ServeConfig holds everything the serve command needs.
type ServeConfig struct {
	Transport string
	Port      int
	MCPPath   string
	Debug     bool
	ReadOnly  bool

	// DirectoryEndpoint overrides the Directory API base URL.
	DirectoryEndpoint string

	// AccessToken is attached to every call on the stdio transport.
	AccessToken string

	Metrics MetricsConfig
}

// HTTPAddr returns the listen address for the streamable HTTP transport.
func (c ServeConfig) HTTPAddr() string {
	return net.JoinHostPort(listenHost, strconv.Itoa(c.Port))
}

// Validate checks the configuration for errors.
func (c ServeConfig) Validate() error {
	switch c.Transport {
	case transportStdio, transportStreamableHTTP:
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: %s, %s)", c.Transport, transportStreamableHTTP, transportStdio)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	return nil
}

func newServeCmd() *cobra.Command {
	cfg := ServeConfig{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server exposing Google Workspace
Directory tools for domains, groups and group members.

Supports multiple transport types:
  - streamable-http: Streamable HTTP transport (default)
  - stdio: Standard input/output

Authentication:
  HTTP Transport:
    Every request must carry a Google access token in the
    X-Forwarded-Access-Token header, typically injected by an OAuth proxy.

  STDIO Transport:
    The token is read from the GOOGLE_ACCESS_TOKEN environment variable.

Configuration:
  PORT, MCP_PATH, METRICS_ENABLED, METRICS_ADDR and DIRECTORY_API_ENDPOINT
  are read from the environment when the matching flag is not set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadServeEnvVars(cmd, &cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	addServeFlags(cmd, &cfg)

	return cmd
}

func addServeFlags(cmd *cobra.Command, cfg *ServeConfig) {
	cmd.Flags().BoolVar(&cfg.Debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&cfg.Transport, "transport", transportStreamableHTTP, "Transport type: streamable-http or stdio")
	cmd.Flags().IntVar(&cfg.Port, "port", defaultPort, "HTTP port to listen on (streamable-http transport). Can also use PORT env var.")
	cmd.Flags().StringVar(&cfg.MCPPath, "mcp-path", server.DefaultMCPPath, "Path of the MCP endpoint (streamable-http transport). Can also use MCP_PATH env var.")
	cmd.Flags().BoolVar(&cfg.ReadOnly, "read-only", false, "Only register tools that do not modify the directory")
	cmd.Flags().StringVar(&cfg.DirectoryEndpoint, "directory-endpoint", "", "Override the Directory API base URL. Can also use DIRECTORY_API_ENDPOINT env var.")

	// Metrics server flags
	cmd.Flags().BoolVar(&cfg.Metrics.Enabled, "metrics", false, "Enable the Prometheus metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&cfg.Metrics.Addr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")
}

// loadServeEnvVars fills in settings from the environment for every flag the
// user did not set explicitly.
func loadServeEnvVars(cmd *cobra.Command, cfg *ServeConfig) error {
	flags := cmd.Flags()

	if !flags.Changed("port") {
		if v := os.Getenv("PORT"); v != "" {
			port, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid PORT value %q: %w", v, err)
			}
			cfg.Port = port
		}
	}
	if !flags.Changed("mcp-path") {
		if v := os.Getenv("MCP_PATH"); v != "" {
			cfg.MCPPath = v
		}
	}
	if !flags.Changed("directory-endpoint") {
		cfg.DirectoryEndpoint = os.Getenv("DIRECTORY_API_ENDPOINT")
	}
	if !flags.Changed("metrics") {
		if v := os.Getenv("METRICS_ENABLED"); v != "" {
			enabled, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid METRICS_ENABLED value %q: %w", v, err)
			}
			cfg.Metrics.Enabled = enabled
		}
	}
	if !flags.Changed("metrics-addr") {
		if v := os.Getenv("METRICS_ADDR"); v != "" {
			cfg.Metrics.Addr = v
		}
	}

	cfg.AccessToken = os.Getenv(server.AccessTokenEnvVar)
	return nil
}

func runServe(ctx context.Context, cfg ServeConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// Logs always go to stderr; stdout carries the stdio transport.
	logging.Setup(os.Stderr, cfg.Debug)

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			slog.Warn("error during instrumentation shutdown", logging.Err(err))
		}
	}()

	var clientOpts []option.ClientOption
	if cfg.DirectoryEndpoint != "" {
		slog.Info("using custom Directory API endpoint", "endpoint", cfg.DirectoryEndpoint)
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.DirectoryEndpoint))
	}

	serverContext, err := server.NewServerContext(ctx, directory.NewClientFactory(clientOpts...))
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			slog.Warn("error during server context shutdown", logging.Err(err))
		}
	}()

	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		if instrConfig.AuditLogging.Enabled {
			serverContext.SetAuditLogger(
				instrumentation.NewAuditLoggerWithConfig(nil, instrConfig.AuditLogging),
				instrConfig.AuditLogging.IncludePII,
			)
		}
	}
	serverContext.SetReadOnly(cfg.ReadOnly)

	if cfg.ReadOnly {
		slog.Info("starting server in read-only mode, tools that modify the directory are disabled")
	}

	mcpSrv, err := newMCPServer(serverContext, cfg.ReadOnly)
	if err != nil {
		return err
	}

	switch cfg.Transport {
	case transportStdio:
		return runStdioServer(mcpSrv, cfg.AccessToken)
	default:
		return runStreamableHTTPServer(mcpSrv, serverContext, cfg, provider)
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer, accessToken string) error {
	if accessToken == "" {
		slog.Warn("no access token configured, tool calls will fail", "env", server.AccessTokenEnvVar)
	} else {
		slog.Debug("using access token from environment",
			"env", server.AccessTokenEnvVar,
			"token", logging.SanitizeToken(accessToken))
	}

	if err := mcpserver.ServeStdio(mcpSrv,
		mcpserver.WithStdioContextFunc(server.StdioContextFunc(accessToken)),
	); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, cfg ServeConfig, provider *instrumentation.Provider) error {
	httpServer, err := server.NewHTTPServer(mcpSrv, sc, server.HTTPServerConfig{
		Addr:    cfg.HTTPAddr(),
		MCPPath: cfg.MCPPath,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("failed to create HTTP server: %w", err)
	}

	var metricsServer *server.MetricsServer
	if cfg.Metrics.Enabled {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    cfg.Metrics.Addr,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
	}

	// The server context ends on a signal or on ServerContext.Shutdown.
	g, gctx := errgroup.WithContext(sc.Context())

	g.Go(httpServer.Start)
	if metricsServer != nil {
		g.Go(metricsServer.Start)
	}

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()

		var errs []error
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("HTTP server shutdown: %w", err))
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
			}
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
