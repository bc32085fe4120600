package client

import (
	"net/http"

	auth "github.com/relatoapp/relato-auth"
)

// AuthTransport is an http.RoundTripper that attaches the stored token to
// every outgoing request and discards the session when the server rejects
// it. A 401 from the login endpoint itself means bad credentials, not a
// dead session, so that one path is exempt from the discard.
type AuthTransport struct {
	// Base is the next transport in the chain, http.DefaultTransport when nil
	Base http.RoundTripper
	// Store holds the session credential
	Store TokenStore
	// LoginPath is the request path whose 401 responses are credential
	// failures rather than session expiry
	LoginPath string
	// OnSessionExpired is invoked after the stored token is discarded in
	// response to a server side 401, e.g. to route the UI back to login
	OnSessionExpired func()

	Logger auth.Logger
}

var _ http.RoundTripper = (*AuthTransport)(nil)

// NewAuthTransport builds a transport over the given store with the
// default login path
func NewAuthTransport(store TokenStore, base http.RoundTripper) *AuthTransport {
	return &AuthTransport{
		Base:      base,
		Store:     store,
		LoginPath: "/api/login",
	}
}

// RoundTrip implements http.RoundTripper. The incoming request is cloned
// before mutation as the contract requires.
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())

	if token, err := t.Store.Get(req.Context()); err == nil && token != "" {
		out.Header.Set("Authorization", auth.BearerScheme+" "+token)
	}

	res, err := t.base().RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if res.StatusCode == http.StatusUnauthorized && req.URL.Path != t.LoginPath {
		// the server no longer honors this token, drop it so the guard
		// sees a clean no-token state on the next check
		if clearErr := t.Store.Clear(req.Context()); clearErr != nil && t.Logger != nil {
			t.Logger.Error("failed to clear rejected token", "error", clearErr)
		}

		if t.OnSessionExpired != nil {
			t.OnSessionExpired()
		}
	}

	return res, nil
}

func (t *AuthTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}
