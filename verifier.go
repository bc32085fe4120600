package auth

import "strings"

// BearerScheme is the authorization scheme tokens are presented under. The
// match is case-sensitive: `bearer` or `Token` are rejected.
const BearerScheme = "Bearer"

// TokenVerifier is the server-side trust boundary: it turns a raw
// Authorization header value into trusted claims or a typed failure. Every
// failure is terminal for the request; callers must answer 401 and must not
// fall back to any other authentication.
type TokenVerifier struct {
	codec TokenCodec
}

// NewTokenVerifier returns a verifier around the given codec
func NewTokenVerifier(codec TokenCodec) *TokenVerifier {
	return &TokenVerifier{codec: codec}
}

// VerifyHeader validates the raw Authorization header value. The header must
// match `Bearer <token>` exactly: case-sensitive scheme, exactly one space,
// non-empty token. Decode failures surface 1:1 as ErrTokenMalformed,
// ErrTokenBadSignature, or ErrTokenExpired.
func (v *TokenVerifier) VerifyHeader(raw string) (*JWTClaims, error) {
	token, err := ExtractBearerToken(raw)
	if err != nil {
		return nil, err
	}

	return v.codec.Decode(token)
}

// Verify validates a bare token string that has already been stripped of its
// scheme.
func (v *TokenVerifier) Verify(token string) (*JWTClaims, error) {
	if token == "" {
		return nil, ErrMissingAuthHeader
	}
	return v.codec.Decode(token)
}

// ExtractBearerToken strips the bearer scheme off a raw Authorization header
// value, enforcing the exact shape.
func ExtractBearerToken(raw string) (string, error) {
	if raw == "" {
		return "", ErrMissingAuthHeader
	}

	scheme, token, found := strings.Cut(raw, " ")
	if !found || scheme != BearerScheme || token == "" || strings.Contains(token, " ") {
		return "", ErrMissingAuthHeader
	}

	return token, nil
}
