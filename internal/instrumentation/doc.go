// Package instrumentation provides OpenTelemetry metrics, tracing, and audit
// logging for the groupsmcp server.
//
// # Metrics
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Directory API Metrics:
//   - google_api_operations_total: Counter of remote calls by service, operation, status
//   - google_api_operation_duration_seconds: Histogram of remote call durations
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of tool execution durations
//   - directory_tool_errors_total: Counter of failed invocations by tool and error kind
//
// # Tracing
//
// Every tool call opens a server span named tool.<name>. Each remote call
// opens a child client span named google.directory.<resource>.<method>,
// for example google.directory.members.hasMember. Listing tools add the
// customer and page size to the tool span.
//
// # Configuration
//
// Instrumentation is configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: prometheus, otlp, stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout, none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: groupsmcp)
//   - OTEL_RESOURCE_ATTRIBUTES: Extra resource attributes, e.g. k8s.pod.name
//   - AUDIT_LOGGING_ENABLED, AUDIT_LOGGING_INCLUDE_PII: audit record control
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordToolInvocation(ctx, "list_groups", instrumentation.StatusSuccess, "", time.Since(start))
package instrumentation
