package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/trace"

	"github.com/teemow/groupsmcp/internal/directory"
	"github.com/teemow/groupsmcp/internal/instrumentation"
	"github.com/teemow/groupsmcp/internal/logging"
	"github.com/teemow/groupsmcp/internal/server"
)

// Target names the directory objects a tool call acts on.
type Target struct {
	Group  string
	Member string
	Domain string
}

// ToolSpec describes one tool for InstrumentedToolHandler.
// P is the validated argument set produced by Parse.
type ToolSpec[P any] struct {
	Name     string
	ReadOnly bool

	// Parse validates the raw arguments. It runs before any client is built.
	Parse func(args map[string]any) (P, error)

	// Target reports the identifiers used in logs, spans, and audit records.
	Target func(P) Target

	// Span adds tool specific attributes to the tool span. Optional.
	Span func(p P, b *instrumentation.SpanAttributeBuilder)

	// Action completes "Failed to ..." in error messages, e.g. "get group g@x.com".
	Action func(P) string

	// Run performs the remote calls through CallRemote.
	Run func(ctx context.Context, api directory.API, p P) (*mcp.CallToolResult, error)
}

// InstrumentedToolHandler turns a ToolSpec into an mcp-go tool handler.
//
// Per call it resolves the access token, validates the arguments, builds
// exactly one Directory client, and runs the spec. Every failure is returned
// as an error result, never as a protocol error, and is logged once.
// Metrics, the tool span, and the audit record are written on every path.
//
// Usage:
//
//	s.AddTool(tool, common.InstrumentedToolHandler(sc, getGroupSpec))
func InstrumentedToolHandler[P any](sc *server.ServerContext, spec ToolSpec[P]) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		ctx, span := instrumentation.StartToolSpan(ctx, spec.Name,
			instrumentation.NewSpanAttributeBuilder().WithReadOnly(spec.ReadOnly).Build()...)
		defer span.End()

		invocation := instrumentation.NewToolInvocation(spec.Name).
			WithReadOnly(spec.ReadOnly).
			WithSpanContext(ctx)

		result, target, action, err := runTool(ctx, sc, spec, request.GetArguments())

		invocation.WithTarget(target.Group, target.Member, target.Domain)
		span.SetAttributes(instrumentation.NewSpanAttributeBuilder().
			WithGroup(target.Group).
			WithMember(target.Member, sc.IncludePII()).
			WithDomain(target.Domain).
			Build()...)

		status := instrumentation.StatusSuccess
		if err != nil {
			status = instrumentation.StatusError
			kind := directory.Kind(err)
			message := failureMessage(action, err)

			logFailure(spec.Name, target, kind, message, err)
			instrumentation.SetSpanError(span, err, kind)
			sc.Metrics().RecordToolError(ctx, spec.Name, kind)
			invocation.CompleteWithError(err, kind)
			result = mcp.NewToolResultError(message)
		} else {
			instrumentation.SetSpanSuccess(span)
			invocation.CompleteSuccess()
		}

		sc.Metrics().RecordToolInvocation(ctx, spec.Name, status, target.Group, time.Since(start))
		sc.AuditLogger().LogToolInvocation(invocation)

		return result, nil
	}
}

func runTool[P any](ctx context.Context, sc *server.ServerContext, spec ToolSpec[P], args map[string]any) (*mcp.CallToolResult, Target, string, error) {
	token, ok := server.AccessTokenFromContext(ctx)
	if !ok {
		return nil, Target{}, "", directory.ErrMissingCredential
	}

	params, err := spec.Parse(args)
	if err != nil {
		return nil, Target{}, "", err
	}

	if spec.Span != nil {
		b := instrumentation.NewSpanAttributeBuilder()
		spec.Span(params, b)
		trace.SpanFromContext(ctx).SetAttributes(b.Build()...)
	}

	var target Target
	if spec.Target != nil {
		target = spec.Target(params)
	}
	action := spec.Action(params)

	api, err := sc.NewDirectoryClient(ctx, token)
	if err != nil {
		var cce *directory.ClientConstructionError
		if !errors.As(err, &cce) {
			err = &directory.ClientConstructionError{Err: err}
		}
		return nil, target, action, err
	}

	result, err := spec.Run(ctx, api, params)
	if err != nil {
		return nil, target, action, directory.Classify(err)
	}
	return result, target, action, nil
}

// failureMessage prefixes remote failures with the attempted action.
// Failures raised before the remote call carry their own message.
func failureMessage(action string, err error) string {
	switch directory.Kind(err) {
	case directory.KindRemoteService, directory.KindUnexpected:
		return fmt.Sprintf("Failed to %s. %v", action, err)
	default:
		return err.Error()
	}
}

func logFailure(tool string, target Target, kind, message string, err error) {
	logger := logging.WithTool(slog.Default(), tool)
	attrs := []any{logging.ErrorKind(kind)}
	if op := directory.FailedOperation(err); op != "" {
		attrs = append(attrs, logging.Operation(op))
	}
	if target.Group != "" {
		attrs = append(attrs, logging.Group(target.Group))
	}
	if target.Member != "" {
		attrs = append(attrs, logging.Member(target.Member))
	}
	if target.Domain != "" {
		attrs = append(attrs, logging.Domain(target.Domain))
	}
	attrs = append(attrs, logging.Err(err))

	switch kind {
	case directory.KindRemoteService, directory.KindUnexpected:
		logger.Error(message, attrs...)
	default:
		logger.Warn("tool call rejected", attrs...)
	}
}
