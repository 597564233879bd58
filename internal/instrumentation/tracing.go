package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/teemow/groupsmcp/internal/logging"
)

// TracerName is the instrumentation scope used for spans and meters.
const TracerName = "github.com/teemow/groupsmcp"

// Span attribute keys.
const (
	SpanAttrTool       = "mcp.tool"
	SpanAttrStatus     = "mcp.status"
	SpanAttrReadOnly   = "mcp.read_only"
	SpanAttrErrorKind  = "mcp.error_kind"
	SpanAttrService    = "google.service"
	SpanAttrOperation  = "google.operation"
	SpanAttrGroup      = "directory.group"
	SpanAttrMember     = "directory.member"
	SpanAttrDomain     = "directory.domain"
	SpanAttrCustomer   = "directory.customer"
	SpanAttrPageToken  = "directory.has_page_token"
	SpanAttrMaxResults = "directory.max_results"
)

// SpanAttributeBuilder collects span attributes, skipping empty identifiers.
type SpanAttributeBuilder struct {
	attrs []attribute.KeyValue
}

// NewSpanAttributeBuilder creates a new SpanAttributeBuilder.
func NewSpanAttributeBuilder() *SpanAttributeBuilder {
	return &SpanAttributeBuilder{
		attrs: make([]attribute.KeyValue, 0, 8),
	}
}

func (b *SpanAttributeBuilder) withString(key, value string) *SpanAttributeBuilder {
	if value != "" {
		b.attrs = append(b.attrs, attribute.String(key, value))
	}
	return b
}

// WithTool adds the MCP tool name.
func (b *SpanAttributeBuilder) WithTool(tool string) *SpanAttributeBuilder {
	return b.withString(SpanAttrTool, tool)
}

// WithGroup adds the group key.
func (b *SpanAttributeBuilder) WithGroup(group string) *SpanAttributeBuilder {
	return b.withString(SpanAttrGroup, group)
}

// WithMember adds the member key, hashed unless includePII is set.
func (b *SpanAttributeBuilder) WithMember(member string, includePII bool) *SpanAttributeBuilder {
	if !includePII {
		member = logging.AnonymizeEmail(member)
	}
	return b.withString(SpanAttrMember, member)
}

// WithDomain adds the domain name.
func (b *SpanAttributeBuilder) WithDomain(domain string) *SpanAttributeBuilder {
	return b.withString(SpanAttrDomain, domain)
}

// WithCustomer adds the customer identifier.
func (b *SpanAttributeBuilder) WithCustomer(customer string) *SpanAttributeBuilder {
	return b.withString(SpanAttrCustomer, customer)
}

// WithPaging records the page size and whether a continuation token was sent.
func (b *SpanAttributeBuilder) WithPaging(maxResults int64, pageToken string) *SpanAttributeBuilder {
	b.attrs = append(b.attrs,
		attribute.Int64(SpanAttrMaxResults, maxResults),
		attribute.Bool(SpanAttrPageToken, pageToken != ""),
	)
	return b
}

// WithReadOnly adds the read-only indicator.
func (b *SpanAttributeBuilder) WithReadOnly(readOnly bool) *SpanAttributeBuilder {
	b.attrs = append(b.attrs, attribute.Bool(SpanAttrReadOnly, readOnly))
	return b
}

// Build returns the constructed attributes.
func (b *SpanAttributeBuilder) Build() []attribute.KeyValue {
	return b.attrs
}

// StartToolSpan starts a server span named tool.<name>.
// The caller ends the span.
func StartToolSpan(ctx context.Context, toolName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := append(NewSpanAttributeBuilder().WithTool(toolName).Build(), attrs...)

	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "tool."+toolName,
		trace.WithAttributes(allAttrs...),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// StartGoogleAPISpan starts a client span named google.<service>.<operation>.
func StartGoogleAPISpan(ctx context.Context, service, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := make([]attribute.KeyValue, 0, len(attrs)+2)
	allAttrs = append(allAttrs,
		attribute.String(SpanAttrService, service),
		attribute.String(SpanAttrOperation, operation),
	)
	allAttrs = append(allAttrs, attrs...)

	tracer := otel.GetTracerProvider().Tracer(TracerName)
	return tracer.Start(ctx, "google."+service+"."+operation,
		trace.WithAttributes(allAttrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// SetSpanError records err on the span and marks it failed.
// A non-empty kind is attached as mcp.error_kind.
func SetSpanError(span trace.Span, err error, kind string) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if kind != "" {
		span.SetAttributes(attribute.String(SpanAttrErrorKind, kind))
	}
}

// SetSpanSuccess sets the span status to OK.
func SetSpanSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// GetTraceID returns the trace ID of the span in ctx, or "".
func GetTraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}

// GetSpanID returns the span ID of the span in ctx, or "".
func GetSpanID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		return span.SpanContext().SpanID().String()
	}
	return ""
}
