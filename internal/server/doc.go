// Package server wires the MCP server to its transports.
//
// # Key Components
//
// ServerContext carries the Directory client factory, the metrics recorder,
// and the audit logger shared by every tool handler. It does not cache
// clients; each invocation builds one from the caller's access token.
//
// The access token travels in the request context. On the streamable HTTP
// transport HTTPContextFunc copies it from the X-Forwarded-Access-Token
// header, set by the authenticating proxy in front of this server. On the
// stdio transport StdioContextFunc attaches the token from the
// GOOGLE_ACCESS_TOKEN environment variable.
//
// HTTPServer mounts the MCP endpoint next to /health, /healthz, /readyz,
// and /healthz/detailed on a chi router. MetricsServer exposes Prometheus
// metrics on a separate port.
package server
