package server

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/groupsmcp/internal/directory"
	"github.com/teemow/groupsmcp/internal/instrumentation"
)

func nopFactory(context.Context, string) (directory.API, error) {
	return nil, nil
}

func TestNewServerContext(t *testing.T) {
	_, err := NewServerContext(context.Background(), nil)
	assert.Error(t, err)

	sc, err := NewServerContext(context.Background(), nopFactory)
	require.NoError(t, err)
	assert.NotNil(t, sc.Metrics(), "metrics default to a no-op recorder")
	assert.Nil(t, sc.AuditLogger())
	assert.False(t, sc.ReadOnly())
	assert.False(t, sc.IsShutdown())
}

func TestServerContext_NewDirectoryClient(t *testing.T) {
	var gotToken string
	sc, err := NewServerContext(context.Background(), func(_ context.Context, token string) (directory.API, error) {
		gotToken = token
		return nil, &directory.ClientConstructionError{Err: assert.AnError}
	})
	require.NoError(t, err)

	_, err = sc.NewDirectoryClient(context.Background(), "ya29.token")
	assert.Equal(t, "ya29.token", gotToken)

	var cce *directory.ClientConstructionError
	assert.ErrorAs(t, err, &cce)
}

func TestServerContext_Setters(t *testing.T) {
	sc, err := NewServerContext(context.Background(), nopFactory)
	require.NoError(t, err)

	m := &instrumentation.Metrics{}
	sc.SetMetrics(m)
	assert.Same(t, m, sc.Metrics())

	sc.SetMetrics(nil)
	assert.NotNil(t, sc.Metrics())

	al := instrumentation.NewAuditLoggerWithConfig(nil, instrumentation.AuditLoggingConfig{Enabled: true})
	sc.SetAuditLogger(al, true)
	assert.Same(t, al, sc.AuditLogger())
	assert.True(t, sc.IncludePII())

	sc.SetReadOnly(true)
	assert.True(t, sc.ReadOnly())
}

func TestServerContext_Shutdown(t *testing.T) {
	sc, err := NewServerContext(context.Background(), nopFactory)
	require.NoError(t, err)

	require.NoError(t, sc.Shutdown())
	assert.True(t, sc.IsShutdown())
	assert.Error(t, sc.Context().Err())

	assert.NoError(t, sc.Shutdown(), "second shutdown is a no-op")
}
