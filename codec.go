package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// TokenCodec encodes and decodes the signed credential without tying callers
// to a specific signing implementation.
type TokenCodec interface {
	Encode(claims *JWTClaims) (string, error)
	Decode(token string) (*JWTClaims, error)
}

// HS256Codec is the TokenCodec used across the platform: an HMAC-SHA256 JWT
// signed with a single process-wide secret. The codec is pure; the only
// ambient input is the clock, which is injectable for tests.
type HS256Codec struct {
	signingKey []byte
	issuer     string
	leeway     time.Duration
	now        func() time.Time
}

var _ TokenCodec = (*HS256Codec)(nil)

// CodecOption customizes codec construction
type CodecOption func(*HS256Codec)

// WithCodecClock injects a custom clock (useful for tests)
func WithCodecClock(clock func() time.Time) CodecOption {
	return func(c *HS256Codec) {
		if clock != nil {
			c.now = clock
		}
	}
}

// WithCodecLeeway sets the clock skew tolerance applied to the expiry check.
// The default is zero; deployments with drifting clients can widen it.
func WithCodecLeeway(leeway time.Duration) CodecOption {
	return func(c *HS256Codec) {
		if leeway > 0 {
			c.leeway = leeway
		}
	}
}

// WithCodecIssuer pins the issuer claim that decoded tokens must carry
func WithCodecIssuer(issuer string) CodecOption {
	return func(c *HS256Codec) {
		c.issuer = issuer
	}
}

// NewHS256Codec creates a codec around the given signing secret. The secret
// is copied once at construction and never mutated at runtime.
func NewHS256Codec(signingKey []byte, opts ...CodecOption) *HS256Codec {
	key := make([]byte, len(signingKey))
	copy(key, signingKey)

	codec := &HS256Codec{
		signingKey: key,
		now:        time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(codec)
		}
	}

	return codec
}

// Encode signs the claims with the configured secret
func (c *HS256Codec) Encode(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", goerrors.New("claims must not be nil", goerrors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(c.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign token")
	}

	return signed, nil
}

// Decode parses and validates a token string, returning structured claims.
// Failures are reported with exactly one of the typed errors: a token that is
// not shaped like a JWT is ErrTokenMalformed before any signature work, a
// signature that does not verify is ErrTokenBadSignature even when the token
// is also expired, and only a correctly signed token past its expiry is
// ErrTokenExpired.
func (c *HS256Codec) Decode(tokenString string) (*JWTClaims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	}
	if c.leeway > 0 {
		parserOptions = append(parserOptions, jwt.WithLeeway(c.leeway))
	}
	if c.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(c.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		return c.signingKey, nil
	}, parserOptions...)

	if err != nil {
		return nil, mapDecodeError(err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

// mapDecodeError folds golang-jwt parse errors onto the typed taxonomy. The
// order matters: structural problems win over signature problems, signature
// problems win over expiry.
func mapDecodeError(err error) error {
	switch {
	case goerrors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenMalformed
	case goerrors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrTokenBadSignature
	case goerrors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrTokenBadSignature
	case goerrors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return ErrTokenMalformed
	}
}
