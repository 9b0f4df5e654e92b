package client

import (
	"context"
	"net/http"

	"github.com/ovenshare/storefront/internal/session"
)

// HTTPDoer is the interface for executing HTTP requests. Both
// httpclient.Client and httpclient.BreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// attachAuth forwards the caller's bearer token to the upstream API when
// one is present in the context.
func attachAuth(ctx context.Context, req *http.Request) {
	if token := session.TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
