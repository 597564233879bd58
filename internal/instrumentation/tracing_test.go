package instrumentation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/teemow/groupsmcp/internal/logging"
)

// recordSpans installs an in-memory tracer provider for the duration of the test.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func attrMap(attrs []attribute.KeyValue) map[string]any {
	m := make(map[string]any, len(attrs))
	for _, attr := range attrs {
		m[string(attr.Key)] = attr.Value.AsInterface()
	}
	return m
}

func TestSpanAttributeBuilder(t *testing.T) {
	attrs := attrMap(NewSpanAttributeBuilder().
		WithTool("get_member").
		WithGroup("eng@x.com").
		WithMember("m@x.com", false).
		WithDomain("x.com").
		WithCustomer("my_customer").
		WithPaging(50, "tok").
		WithReadOnly(true).
		Build())

	assert.Equal(t, "get_member", attrs[SpanAttrTool])
	assert.Equal(t, "eng@x.com", attrs[SpanAttrGroup])
	assert.Equal(t, logging.AnonymizeEmail("m@x.com"), attrs[SpanAttrMember])
	assert.Equal(t, "x.com", attrs[SpanAttrDomain])
	assert.Equal(t, "my_customer", attrs[SpanAttrCustomer])
	assert.Equal(t, int64(50), attrs[SpanAttrMaxResults])
	assert.Equal(t, true, attrs[SpanAttrPageToken])
	assert.Equal(t, true, attrs[SpanAttrReadOnly])
}

func TestSpanAttributeBuilder_MemberWithPII(t *testing.T) {
	attrs := attrMap(NewSpanAttributeBuilder().WithMember("m@x.com", true).Build())
	assert.Equal(t, "m@x.com", attrs[SpanAttrMember])
}

func TestSpanAttributeBuilder_EmptyValues(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithTool("list_domains").
		WithGroup("").
		WithMember("", false).
		WithDomain("").
		Build()

	require.Len(t, attrs, 1)
	assert.Equal(t, SpanAttrTool, string(attrs[0].Key))
}

func TestStartToolSpan(t *testing.T) {
	recorder := recordSpans(t)

	ctx, span := StartToolSpan(context.Background(), "list_groups", attribute.String(SpanAttrDomain, "x.com"))
	assert.NotEmpty(t, GetTraceID(ctx))
	assert.NotEmpty(t, GetSpanID(ctx))
	SetSpanSuccess(span)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "tool.list_groups", ended[0].Name())
	assert.Equal(t, trace.SpanKindServer, ended[0].SpanKind())
	assert.Equal(t, codes.Ok, ended[0].Status().Code)

	attrs := attrMap(ended[0].Attributes())
	assert.Equal(t, "list_groups", attrs[SpanAttrTool])
	assert.Equal(t, "x.com", attrs[SpanAttrDomain])
}

func TestStartGoogleAPISpan(t *testing.T) {
	recorder := recordSpans(t)

	ctx, parent := StartToolSpan(context.Background(), "has_member")
	_, span := StartGoogleAPISpan(ctx, ServiceDirectory, "members.hasMember")
	span.End()
	parent.End()

	ended := recorder.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "google.directory.members.hasMember", ended[0].Name())
	assert.Equal(t, trace.SpanKindClient, ended[0].SpanKind())
	assert.Equal(t, ended[1].SpanContext().SpanID(), ended[0].Parent().SpanID())

	attrs := attrMap(ended[0].Attributes())
	assert.Equal(t, ServiceDirectory, attrs[SpanAttrService])
	assert.Equal(t, "members.hasMember", attrs[SpanAttrOperation])
}

func TestSetSpanError(t *testing.T) {
	recorder := recordSpans(t)

	_, span := StartToolSpan(context.Background(), "get_group")
	SetSpanError(span, errors.New("RemoteServiceError: Resource Not Found: groupKey"), "remote_service")
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "remote_service", attrMap(ended[0].Attributes())[SpanAttrErrorKind])
	require.Len(t, ended[0].Events(), 1)
	assert.Equal(t, "exception", ended[0].Events()[0].Name)
}

func TestSetSpanError_Nil(t *testing.T) {
	recorder := recordSpans(t)

	_, span := StartToolSpan(context.Background(), "get_group")
	SetSpanError(span, nil, "unexpected")
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Unset, ended[0].Status().Code)
}

func TestTraceIDs_NoSpan(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
	assert.Empty(t, GetSpanID(context.Background()))
}
