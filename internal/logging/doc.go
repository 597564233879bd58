// Package logging provides structured logging utilities for the Google Groups
// MCP server.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - PII sanitization (email anonymization)
//   - Consistent attribute naming for tools, groups, members and domains
//   - Token masking
//
// # Usage Patterns
//
// Tool handlers log a failure once, on a logger scoped to the tool:
//
//	logger := logging.WithTool(slog.Default(), "get_group")
//	logger.Error("Failed to get group g@example.com. ...",
//	    logging.Operation("groups.get"),
//	    logging.Group(groupEmail),
//	    logging.Err(err))
//
// # Security Considerations
//
//   - Access tokens are never logged; SanitizeToken reduces one to its length
//   - UserHash allows correlating log entries without exposing an email address
package logging
