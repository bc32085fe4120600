package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// DefaultTokenLifetime bounds how long an issued credential stays valid.
// There is no server-side revocation; the embedded expiry is the only bound.
const DefaultTokenLifetime = 2 * time.Hour

// UserStore is the narrow read interface the issuer needs from the external
// user store.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}

// TokenIssuer validates login credentials and mints signed tokens
type TokenIssuer struct {
	users    UserStore
	codec    TokenCodec
	issuer   string
	lifetime time.Duration
	logger   Logger
	now      func() time.Time
}

// IssuerOption customizes issuer construction
type IssuerOption func(*TokenIssuer)

// WithIssuerClock injects a custom clock (useful for tests)
func WithIssuerClock(clock func() time.Time) IssuerOption {
	return func(i *TokenIssuer) {
		if clock != nil {
			i.now = clock
		}
	}
}

// WithTokenLifetime overrides the default 2 hour token lifetime
func WithTokenLifetime(lifetime time.Duration) IssuerOption {
	return func(i *TokenIssuer) {
		if lifetime > 0 {
			i.lifetime = lifetime
		}
	}
}

// WithIssuerName sets the issuer claim stamped on minted tokens
func WithIssuerName(name string) IssuerOption {
	return func(i *TokenIssuer) {
		i.issuer = name
	}
}

// WithIssuerLogger overrides the default logger
func WithIssuerLogger(logger Logger) IssuerOption {
	return func(i *TokenIssuer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// NewTokenIssuer returns a new TokenIssuer
func NewTokenIssuer(users UserStore, codec TokenCodec, opts ...IssuerOption) *TokenIssuer {
	issuer := &TokenIssuer{
		users:    users,
		codec:    codec,
		lifetime: DefaultTokenLifetime,
		logger:   defLogger{},
		now:      time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(issuer)
		}
	}

	return issuer
}

// Issue validates the credentials against the user store and returns a signed
// token. An unknown email and a wrong password both fail with
// ErrInvalidCredentials; the password itself is never logged or persisted.
func (i *TokenIssuer) Issue(ctx context.Context, email, password string) (string, error) {
	user, err := i.users.FindByEmail(ctx, email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return "", ErrInvalidCredentials
		}
		i.logger.Error("issue failed to look up user", "error", err)
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user during login")
	}

	if user == nil {
		return "", ErrInvalidCredentials
	}

	// Compare the entered password's hash against the stored hash for the
	// looked-up email; nothing else.
	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if goerrors.Is(err, ErrMismatchedHashAndPassword) {
			return "", ErrInvalidCredentials
		}
		i.logger.Error("issue failed to compare password hash", "error", err)
		return "", err
	}

	token, err := i.codec.Encode(i.newClaims(user))
	if err != nil {
		i.logger.Error("issue failed to sign claims", "error", err)
		return "", err
	}

	return token, nil
}

// newClaims builds the immutable claims value for a freshly authenticated
// user: subject id, email, role, issued-at now, expires-at now + lifetime.
func (i *TokenIssuer) newClaims(user *User) *JWTClaims {
	now := i.now()

	return &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.lifetime)),
		},
		UserEmail: user.Email,
		UserRole:  string(user.Role),
	}
}
