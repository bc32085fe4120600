package client

import (
	"context"

	"github.com/golang-jwt/jwt/v5"

	auth "github.com/relatoapp/relato-auth"
)

// SessionState is the client side view of the session. There are exactly
// two states: either a token is stored or it is not. The client does not
// model expiry or revocation, the server decides both.
type SessionState int

const (
	// StateNoToken means no credential is stored locally
	StateNoToken SessionState = iota
	// StateTokenPresent means a credential is stored and will be attached
	// to outgoing requests
	StateTokenPresent
)

func (s SessionState) String() string {
	if s == StateTokenPresent {
		return "token-present"
	}
	return "no-token"
}

// Decision is the outcome of a guard check for a view
type Decision struct {
	Allow bool
	// RedirectTo names the view to send the user to when Allow is false
	RedirectTo string
}

// GuardRoutes holds the destinations the guard redirects to
type GuardRoutes struct {
	// Login is where unauthenticated users are sent
	Login string
	// Home is the default authenticated view, used when a role gate fails
	Home string
}

// SessionGuard gates client views on the locally stored credential. Its
// role reads are unverified: a user can forge a role claim and pass the
// guard, but every server request is verified independently so the forged
// session can only see empty shells of privileged views.
type SessionGuard struct {
	store  TokenStore
	routes GuardRoutes
	logger auth.Logger
}

// GuardOption configures the guard
type GuardOption func(*SessionGuard)

// WithGuardRoutes overrides the default redirect destinations
func WithGuardRoutes(routes GuardRoutes) GuardOption {
	return func(g *SessionGuard) {
		if routes.Login != "" {
			g.routes.Login = routes.Login
		}
		if routes.Home != "" {
			g.routes.Home = routes.Home
		}
	}
}

// WithGuardLogger overrides the default logger
func WithGuardLogger(logger auth.Logger) GuardOption {
	return func(g *SessionGuard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewSessionGuard builds a guard over the given token store
func NewSessionGuard(store TokenStore, opts ...GuardOption) *SessionGuard {
	g := &SessionGuard{
		store: store,
		routes: GuardRoutes{
			Login: "/login",
			Home:  "/home",
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// State reports the current session state. A stored token that does not
// even parse is treated as absent and cleared, so a corrupt store entry
// cannot wedge the client in a broken session.
func (g *SessionGuard) State(ctx context.Context) SessionState {
	if _, err := g.claims(ctx); err != nil {
		return StateNoToken
	}
	return StateTokenPresent
}

// Check gates a plain authenticated view: any stored token passes, no
// token redirects to login
func (g *SessionGuard) Check(ctx context.Context) Decision {
	if g.State(ctx) == StateNoToken {
		return Decision{RedirectTo: g.routes.Login}
	}
	return Decision{Allow: true}
}

// CheckRole gates a role restricted view. No token redirects to login; a
// token whose role claim does not match redirects to the default
// authenticated view instead, the session itself stays intact.
func (g *SessionGuard) CheckRole(ctx context.Context, role string) Decision {
	claims, err := g.claims(ctx)
	if err != nil {
		return Decision{RedirectTo: g.routes.Login}
	}

	if !claims.HasRole(role) {
		return Decision{RedirectTo: g.routes.Home}
	}

	return Decision{Allow: true}
}

// CheckAnonymous gates the login view itself: a user with a stored token
// is sent to the authenticated home instead
func (g *SessionGuard) CheckAnonymous(ctx context.Context) Decision {
	if g.State(ctx) == StateTokenPresent {
		return Decision{RedirectTo: g.routes.Home}
	}
	return Decision{Allow: true}
}

// Claims returns the unverified claims of the stored token, for display
// purposes such as showing the signed in email
func (g *SessionGuard) Claims(ctx context.Context) (auth.AuthClaims, error) {
	return g.claims(ctx)
}

func (g *SessionGuard) claims(ctx context.Context) (*auth.JWTClaims, error) {
	token, err := g.store.Get(ctx)
	if err != nil {
		return nil, ErrNoToken
	}

	claims := &auth.JWTClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// a token we cannot read is a token we do not have
		if g.logger != nil {
			g.logger.Warn("clearing unreadable stored token", "error", err)
		}
		_ = g.store.Clear(ctx)
		return nil, ErrNoToken
	}

	return claims, nil
}
