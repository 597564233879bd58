package server

import (
	"context"
	"net/http"
)

// AccessTokenHeader carries the caller's OAuth access token, set by the
// authenticating proxy in front of the server.
const AccessTokenHeader = "X-Forwarded-Access-Token"

// AccessTokenEnvVar supplies the token for the stdio transport.
const AccessTokenEnvVar = "GOOGLE_ACCESS_TOKEN"

type accessTokenKey struct{}

// WithAccessToken returns a context carrying the given access token.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, token)
}

// AccessTokenFromContext returns the access token attached to ctx.
// The second result is false when no non-empty token is present.
func AccessTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(accessTokenKey{}).(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

// HTTPContextFunc copies the forwarded access token from the request headers
// into the tool call context. The header value is used verbatim.
func HTTPContextFunc(ctx context.Context, r *http.Request) context.Context {
	if token := r.Header.Get(AccessTokenHeader); token != "" {
		return WithAccessToken(ctx, token)
	}
	return ctx
}

// StdioContextFunc returns a context function that attaches a fixed token
// to every tool call. An empty token leaves the context untouched.
func StdioContextFunc(token string) func(context.Context) context.Context {
	return func(ctx context.Context) context.Context {
		if token == "" {
			return ctx
		}
		return WithAccessToken(ctx, token)
	}
}
