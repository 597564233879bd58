package server

import (
	"context"
	"errors"
	"sync"

	"github.com/teemow/groupsmcp/internal/directory"
	"github.com/teemow/groupsmcp/internal/instrumentation"
)

// ServerContext holds the dependencies shared by all tool handlers.
//
// Directory clients are not cached: every tool invocation builds its own
// client from the caller's token through the ClientFactory.
type ServerContext struct {
	ctx           context.Context
	cancel        context.CancelFunc
	clientFactory directory.ClientFactory
	metrics       *instrumentation.Metrics
	auditLogger   *instrumentation.AuditLogger
	includePII    bool
	readOnly      bool
	mu            sync.RWMutex
	shutdown      bool
}

// NewServerContext creates a server context around the given client factory.
func NewServerContext(ctx context.Context, factory directory.ClientFactory) (*ServerContext, error) {
	if factory == nil {
		return nil, errors.New("directory client factory is required")
	}

	shutdownCtx, cancel := context.WithCancel(ctx)

	return &ServerContext{
		ctx:           shutdownCtx,
		cancel:        cancel,
		clientFactory: factory,
		metrics:       &instrumentation.Metrics{},
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// NewDirectoryClient builds a Directory API client for one invocation.
func (sc *ServerContext) NewDirectoryClient(ctx context.Context, accessToken string) (directory.API, error) {
	return sc.clientFactory(ctx, accessToken)
}

// SetMetrics replaces the metrics recorder. A nil value installs a no-op recorder.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	if m == nil {
		m = &instrumentation.Metrics{}
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// Metrics returns the metrics recorder.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetAuditLogger sets the audit logger. A nil value disables audit records.
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger, includePII bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = al
	sc.includePII = includePII
}

// AuditLogger returns the audit logger, or nil.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// IncludePII reports whether member addresses may appear in spans.
func (sc *ServerContext) IncludePII() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.includePII
}

// SetReadOnly restricts tool registration to non-mutating tools.
func (sc *ServerContext) SetReadOnly(readOnly bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.readOnly = readOnly
}

// ReadOnly reports whether mutating tools are disabled.
func (sc *ServerContext) ReadOnly() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.readOnly
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
