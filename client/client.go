package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	auth "github.com/relatoapp/relato-auth"
)

// Client is the API consumer's session manager. Login exchanges
// credentials for a token and persists it; Logout is purely local, the
// server keeps no session to terminate.
type Client struct {
	baseURL   string
	loginPath string
	http      *http.Client
	store     TokenStore
	guard     *SessionGuard
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client. The transport is
// still wrapped in an AuthTransport over the client's token store.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLoginPath overrides the login endpoint path
func WithLoginPath(path string) ClientOption {
	return func(c *Client) {
		if path != "" {
			c.loginPath = path
		}
	}
}

// New builds a client against baseURL, persisting the session in store
func New(baseURL string, store TokenStore, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		loginPath: "/api/login",
		http:      &http.Client{},
		store:     store,
		guard:     NewSessionGuard(store),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	transport := NewAuthTransport(store, c.http.Transport)
	transport.LoginPath = c.loginPath
	c.http.Transport = transport

	return c
}

// Guard returns the session guard sharing this client's token store
func (c *Client) Guard() *SessionGuard {
	return c.guard
}

// OnSessionExpired registers a callback fired when the server rejects the
// stored token and the client discards it
func (c *Client) OnSessionExpired(fn func()) {
	if t, ok := c.http.Transport.(*AuthTransport); ok {
		t.OnSessionExpired = fn
	}
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Login exchanges credentials for a token and stores it. A 401 surfaces
// as invalid credentials without touching any previously stored session.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body, err := json.Marshal(loginPayload{Email: email, Password: password})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode login payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.loginPath, bytes.NewReader(body))
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build login request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "login request failed")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return c.errorFromResponse(res)
	}

	payload := tokenResponse{}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to decode login response")
	}

	if payload.Token == "" {
		return goerrors.New("login response carried no token", goerrors.CategoryOperation)
	}

	return c.store.Save(ctx, payload.Token)
}

// Logout discards the local session. There is nothing to tell the server:
// the token simply stops being presented and expires on its own.
func (c *Client) Logout(ctx context.Context) error {
	return c.store.Clear(ctx)
}

// Authenticated reports whether a session token is stored
func (c *Client) Authenticated(ctx context.Context) bool {
	return c.guard.State(ctx) == StateTokenPresent
}

// Role returns the unverified role claim of the stored token, empty when
// no session exists
func (c *Client) Role(ctx context.Context) string {
	claims, err := c.guard.Claims(ctx)
	if err != nil {
		return ""
	}
	return claims.Role()
}

// Do sends an arbitrary request through the authenticated transport
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.http.Do(req)
}

func (c *Client) errorFromResponse(res *http.Response) error {
	payload := errorResponse{}
	raw, _ := io.ReadAll(io.LimitReader(res.Body, 1<<16))
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Error == "" {
		payload.Error = http.StatusText(res.StatusCode)
	}

	if res.StatusCode == http.StatusUnauthorized {
		return goerrors.Wrap(auth.ErrInvalidCredentials, goerrors.CategoryAuth, payload.Error).
			WithCode(goerrors.CodeUnauthorized)
	}

	return goerrors.New(payload.Error, goerrors.CategoryOperation).
		WithCode(res.StatusCode)
}
