package auth

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeInvalidCredentials = "INVALID_CREDENTIALS"
	textCodeMissingAuthHeader  = "MISSING_OR_MALFORMED_HEADER"
	textCodeTokenMalformed     = "TOKEN_MALFORMED"
	textCodeTokenBadSignature  = "TOKEN_BAD_SIGNATURE"
	textCodeTokenExpired       = "TOKEN_EXPIRED"
	textCodeForbidden          = "FORBIDDEN"
)

// ErrInvalidCredentials is returned by the issuer for an unknown email or a
// wrong password. The two cases are deliberately indistinguishable so callers
// cannot enumerate accounts.
var ErrInvalidCredentials = goerrors.New("invalid email or password", goerrors.CategoryAuth).
	WithTextCode(textCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrMissingAuthHeader is returned when the Authorization header is absent or
// does not match the exact `Bearer <token>` shape.
var ErrMissingAuthHeader = goerrors.New("missing or malformed authorization header", goerrors.CategoryAuth).
	WithTextCode(textCodeMissingAuthHeader).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed is returned when the credential does not parse as the
// expected structure. The structure is rejected before any signature work.
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenBadSignature is returned when the signature does not verify under
// the current signing secret.
var ErrTokenBadSignature = goerrors.New("token signature is invalid", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenBadSignature).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned for a structurally valid, correctly signed
// token whose expiry has passed.
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrForbidden is the authorization failure: we know who the caller is and
// they may not do this. Distinct from the 401 class above.
var ErrForbidden = goerrors.New("insufficient permissions", goerrors.CategoryAuthz).
	WithTextCode(textCodeForbidden).
	WithCode(goerrors.CodeForbidden)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = goerrors.New("identity not found", goerrors.CategoryNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrMismatchedHashAndPassword is the bcrypt comparison failure. The issuer
// folds it into ErrInvalidCredentials before it reaches a response.
var ErrMismatchedHashAndPassword = goerrors.New("password does not match", goerrors.CategoryAuth).
	WithCode(goerrors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before hashing
var ErrNoEmptyString = goerrors.New("value should not be an empty string", goerrors.CategoryValidation).
	WithCode(goerrors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	return goerrors.Is(err, ErrTokenExpired)
}

// IsVerificationError reports whether err belongs to the 401 class: the
// request carried no trustworthy identity.
func IsVerificationError(err error) bool {
	return goerrors.Is(err, ErrMissingAuthHeader) ||
		goerrors.Is(err, ErrTokenMalformed) ||
		goerrors.Is(err, ErrTokenBadSignature) ||
		goerrors.Is(err, ErrTokenExpired)
}

// IsForbiddenError reports whether err is an authorization denial (403)
func IsForbiddenError(err error) bool {
	return goerrors.Is(err, ErrForbidden)
}

// ErrorStatusCode maps an error onto the HTTP status the transport should
// send. Unknown errors fall through to 500 so nothing is silently swallowed.
func ErrorStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.Code > 0 {
		return richErr.Code
	}

	return http.StatusInternalServerError
}

// ErrorMessage returns the user facing message for an error body. It never
// includes the signing secret or raw token bytes.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.Message != "" {
		return richErr.Message
	}

	return err.Error()
}
