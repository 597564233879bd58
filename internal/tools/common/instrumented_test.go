package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/teemow/groupsmcp/internal/directory"
	"github.com/teemow/groupsmcp/internal/server"
)

// countingFactory counts client constructions and optionally fails them.
type countingFactory struct {
	calls int
	err   error
}

func (f *countingFactory) build(context.Context, string) (directory.API, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return nil, nil
}

func newTestServerContext(t *testing.T, factory directory.ClientFactory) *server.ServerContext {
	t.Helper()
	if factory == nil {
		factory = (&countingFactory{}).build
	}
	sc, err := server.NewServerContext(context.Background(), factory)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

// captureLogs routes the default logger into a buffer for the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(previous) })
	return &buf
}

type groupParams struct {
	GroupEmail string
}

// testSpec mimics get_group with a pluggable remote outcome.
func testSpec(runs *int, remote func() (*mcp.CallToolResult, error)) ToolSpec[groupParams] {
	return ToolSpec[groupParams]{
		Name:     "get_group",
		ReadOnly: true,
		Parse: func(args map[string]any) (groupParams, error) {
			email, err := RequireString(args, "group_email")
			return groupParams{GroupEmail: email}, err
		},
		Target: func(p groupParams) Target { return Target{Group: p.GroupEmail} },
		Action: func(p groupParams) string { return "get group " + p.GroupEmail },
		Run: func(context.Context, directory.API, groupParams) (*mcp.CallToolResult, error) {
			*runs++
			return remote()
		},
	}
}

func callTool(ctx context.Context, t *testing.T, sc *server.ServerContext, spec ToolSpec[groupParams], args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = spec.Name
	req.Params.Arguments = args

	result, err := InstrumentedToolHandler(sc, spec)(ctx, req)
	require.NoError(t, err, "tool failures must be results, not protocol errors")
	require.NotNil(t, result)
	return result
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func withToken() context.Context {
	return server.WithAccessToken(context.Background(), "ya29.token")
}

func okResult() (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText("done"), nil
}

func TestInstrumentedToolHandler_Success(t *testing.T) {
	factory := &countingFactory{}
	sc := newTestServerContext(t, factory.build)
	runs := 0

	result := callTool(withToken(), t, sc, testSpec(&runs, okResult), map[string]any{"group_email": "g@x.com"})

	assert.False(t, result.IsError)
	assert.Equal(t, "done", resultText(t, result))
	assert.Equal(t, 1, factory.calls, "exactly one client per invocation")
	assert.Equal(t, 1, runs)
}

func TestInstrumentedToolHandler_MissingCredential(t *testing.T) {
	factory := &countingFactory{}
	sc := newTestServerContext(t, factory.build)
	runs := 0

	// Checked before arguments: an empty group_email still reports the credential.
	result := callTool(context.Background(), t, sc, testSpec(&runs, okResult), map[string]any{"group_email": ""})

	assert.True(t, result.IsError)
	assert.Equal(t, directory.ErrMissingCredential.Error(), resultText(t, result))
	assert.Zero(t, factory.calls)
	assert.Zero(t, runs)
}

func TestInstrumentedToolHandler_InvalidArgument(t *testing.T) {
	factory := &countingFactory{}
	sc := newTestServerContext(t, factory.build)
	runs := 0

	result := callTool(withToken(), t, sc, testSpec(&runs, okResult), map[string]any{"group_email": ""})

	assert.True(t, result.IsError)
	assert.Equal(t, "argument `group_email` can't be empty", resultText(t, result))
	assert.Zero(t, factory.calls, "validation precedes client construction")
	assert.Zero(t, runs)
}

func TestInstrumentedToolHandler_ClientConstructionError(t *testing.T) {
	factory := &countingFactory{err: errors.New("token contains control characters")}
	sc := newTestServerContext(t, factory.build)
	runs := 0

	result := callTool(withToken(), t, sc, testSpec(&runs, okResult), map[string]any{"group_email": "g@x.com"})

	assert.True(t, result.IsError)
	assert.Equal(t, "failed to build Google Directory API client: token contains control characters", resultText(t, result))
	assert.Equal(t, 1, factory.calls)
	assert.Zero(t, runs)
}

func TestInstrumentedToolHandler_RemoteServiceError(t *testing.T) {
	logs := captureLogs(t)
	sc := newTestServerContext(t, nil)
	runs := 0

	spec := testSpec(&runs, func() (*mcp.CallToolResult, error) {
		return nil, &directory.RemoteServiceError{
			Code:    404,
			Message: "Resource Not Found: groupKey",
			Err:     &googleapi.Error{Code: 404, Message: "Resource Not Found: groupKey"},
		}
	})
	result := callTool(withToken(), t, sc, spec, map[string]any{"group_email": "g@x.com"})

	assert.True(t, result.IsError)
	text := resultText(t, result)
	assert.True(t, strings.HasPrefix(text, "Failed to get group g@x.com. RemoteServiceError: "), text)
	assert.Contains(t, text, "Resource Not Found: groupKey")

	out := logs.String()
	assert.Equal(t, 1, strings.Count(out, "level=ERROR"), out)
	assert.Contains(t, out, "tool=get_group")
	assert.Contains(t, out, "group=g@x.com")
	assert.Contains(t, out, "error_kind=remote_service")
}

func TestInstrumentedToolHandler_UnclassifiedErrorIsUnexpected(t *testing.T) {
	logs := captureLogs(t)
	sc := newTestServerContext(t, nil)
	runs := 0

	spec := testSpec(&runs, func() (*mcp.CallToolResult, error) {
		return nil, errors.New("failed to encode result")
	})
	result := callTool(withToken(), t, sc, spec, map[string]any{"group_email": "g@x.com"})

	assert.True(t, result.IsError)
	assert.Equal(t, "Failed to get group g@x.com. UnexpectedError: failed to encode result", resultText(t, result))
	assert.Equal(t, 1, strings.Count(logs.String(), "level=ERROR"))
}

func TestFailureMessage(t *testing.T) {
	assert.Equal(t, "argument `name` can't be empty",
		failureMessage("create group", directory.NewInvalidArgument("name", "can't be empty")))
	assert.Equal(t, "Failed to list domains. UnexpectedError: eof",
		failureMessage("list domains", &directory.UnexpectedError{Err: errors.New("eof")}))
}
