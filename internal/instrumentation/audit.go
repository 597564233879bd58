package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/teemow/groupsmcp/internal/logging"
)

// ToolInvocation is the audit record of a single tool call.
//
// # Privacy Considerations
//
// Member holds a user address. LogAttrs replaces it with a stable hash and its
// domain; only LogAuditAttrs emits it in clear text.
type ToolInvocation struct {
	// ID uniquely identifies the invocation across log lines.
	ID string

	Tool     string
	ReadOnly bool

	// Directory targets; empty when the tool does not take them.
	Group  string
	Member string
	Domain string

	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string
	ErrorKind string

	TraceID string
	SpanID  string
}

// NewToolInvocation starts timing a tool call and assigns it a fresh ID.
func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{
		ID:        uuid.NewString(),
		Tool:      tool,
		StartTime: time.Now(),
	}
}

// WithTarget sets the directory identifiers the tool operates on.
func (ti *ToolInvocation) WithTarget(group, member, domain string) *ToolInvocation {
	ti.Group = group
	ti.Member = member
	ti.Domain = domain
	return ti
}

// WithReadOnly marks whether the tool mutates directory state.
func (ti *ToolInvocation) WithReadOnly(readOnly bool) *ToolInvocation {
	ti.ReadOnly = readOnly
	return ti
}

// WithSpanContext copies trace identifiers from the span in ctx.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	ti.TraceID = GetTraceID(ctx)
	ti.SpanID = GetSpanID(ctx)
	return ti
}

// CompleteSuccess marks the invocation as successful.
func (ti *ToolInvocation) CompleteSuccess() *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = true
	return ti
}

// CompleteWithError marks the invocation as failed with the given error kind.
func (ti *ToolInvocation) CompleteWithError(err error, kind string) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = false
	ti.ErrorKind = kind
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

// Status returns "success" or "error".
func (ti *ToolInvocation) Status() string {
	if ti.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs returns attributes safe for general log streams.
func (ti *ToolInvocation) LogAttrs() []slog.Attr {
	attrs := ti.baseAttrs()
	if ti.Member != "" {
		attrs = append(attrs,
			logging.UserHash(ti.Member),
			slog.String("member_domain", ExtractUserDomain(ti.Member)),
		)
	}
	return append(attrs, ti.resultAttrs()...)
}

// LogAuditAttrs returns attributes including the member address in clear text.
//
// # Security Warning
//
// Route these records to storage with access controls appropriate for PII.
func (ti *ToolInvocation) LogAuditAttrs() []slog.Attr {
	attrs := ti.baseAttrs()
	if ti.Member != "" {
		attrs = append(attrs, logging.Member(ti.Member))
	}
	attrs = append(attrs, ti.resultAttrs()...)
	if ti.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ti.SpanID))
	}
	return attrs
}

func (ti *ToolInvocation) baseAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("invocation_id", ti.ID),
		logging.Tool(ti.Tool),
		slog.Bool("read_only", ti.ReadOnly),
	}
	if ti.Group != "" {
		attrs = append(attrs, logging.Group(ti.Group))
	}
	if ti.Domain != "" {
		attrs = append(attrs, logging.Domain(ti.Domain))
	}
	return attrs
}

func (ti *ToolInvocation) resultAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.Duration(logging.KeyDuration, ti.Duration),
		logging.Status(ti.Status()),
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if ti.ErrorKind != "" {
		attrs = append(attrs, logging.ErrorKind(ti.ErrorKind))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String(logging.KeyError, ti.Error))
	}
	return attrs
}

// AuditLogger writes one structured record per tool invocation.
type AuditLogger struct {
	logger     *slog.Logger
	includePII bool
	enabled    bool
}

// NewAuditLoggerWithConfig creates an AuditLogger with the given configuration.
// A nil logger falls back to slog.Default().
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger.With(slog.String("component", "audit")),
		includePII: config.IncludePII,
		enabled:    config.Enabled,
	}
}

// LogToolInvocation logs ti at Info on success and Warn on failure.
// A nil AuditLogger is a no-op.
func (al *AuditLogger) LogToolInvocation(ti *ToolInvocation) {
	if al == nil || !al.enabled || ti == nil {
		return
	}

	var attrs []slog.Attr
	if al.includePII {
		attrs = ti.LogAuditAttrs()
	} else {
		attrs = ti.LogAttrs()
	}

	level := slog.LevelInfo
	msg := "tool_executed"
	if !ti.Success {
		level = slog.LevelWarn
		msg = "tool_failed"
	}
	al.logger.LogAttrs(context.Background(), level, msg, attrs...)
}
