package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccessTokenFromContext(t *testing.T) {
	_, ok := AccessTokenFromContext(context.Background())
	assert.False(t, ok)

	_, ok = AccessTokenFromContext(WithAccessToken(context.Background(), ""))
	assert.False(t, ok, "empty token counts as missing")

	token, ok := AccessTokenFromContext(WithAccessToken(context.Background(), "ya29.token"))
	assert.True(t, ok)
	assert.Equal(t, "ya29.token", token)
}

func TestHTTPContextFunc(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
		wantOK    bool
	}{
		{name: "header present", header: "ya29.token", wantToken: "ya29.token", wantOK: true},
		{name: "header missing"},
		{name: "value used verbatim", header: " padded ", wantToken: " padded ", wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.header != "" {
				req.Header.Set(AccessTokenHeader, tt.header)
			}

			token, ok := AccessTokenFromContext(HTTPContextFunc(context.Background(), req))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

func TestHTTPContextFunc_IgnoresAuthorizationHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer ya29.token")

	_, ok := AccessTokenFromContext(HTTPContextFunc(context.Background(), req))
	assert.False(t, ok)
}

func TestStdioContextFunc(t *testing.T) {
	token, ok := AccessTokenFromContext(StdioContextFunc("ya29.env")(context.Background()))
	assert.True(t, ok)
	assert.Equal(t, "ya29.env", token)

	_, ok = AccessTokenFromContext(StdioContextFunc("")(context.Background()))
	assert.False(t, ok)
}
