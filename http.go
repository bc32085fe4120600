package auth

import (
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// ClaimsContextKey is the fiber locals key verified claims are stored under
const ClaimsContextKey = "claims"

// MiddlewareOption customizes the HTTP middleware
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	logger Logger
}

// WithMiddlewareLogger overrides the default logger
func WithMiddlewareLogger(logger Logger) MiddlewareOption {
	return func(cfg *middlewareConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Protected returns a middleware that verifies the bearer token on every
// request. On success the trusted claims are stored in the request locals and
// the request context; on failure the request is refused with a 401 and the
// `{"error": ...}` body. There is no fallback authentication.
func Protected(verifier *TokenVerifier, opts ...MiddlewareOption) fiber.Handler {
	cfg := &middlewareConfig{logger: defLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	return func(c *fiber.Ctx) error {
		claims, err := verifier.VerifyHeader(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			cfg.logger.Info("request rejected at verification", "path", c.Path(), "error", ErrorMessage(err))
			return WriteError(c, err)
		}

		c.Locals(ClaimsContextKey, claims)
		c.SetUserContext(WithClaimsContext(c.UserContext(), claims))

		return c.Next()
	}
}

// AdminOnly returns a middleware enforcing the role policy for administrator
// endpoints. It must run after Protected.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromFiber(c)
		if !ok {
			return WriteError(c, ErrMissingAuthHeader)
		}

		if err := RequireAdmin(claims); err != nil {
			return WriteError(c, err)
		}

		return c.Next()
	}
}

// OwnerOrAdmin returns a middleware enforcing the ownership policy for a
// route mutating one resource. The resource id is read from the named route
// parameter and its owner from the resolver; the policy then allows the
// author or an administrator. It must run after Protected.
func OwnerOrAdmin(resolver OwnerResolver, kind, param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromFiber(c)
		if !ok {
			return WriteError(c, ErrMissingAuthHeader)
		}

		id := c.Params(param)
		owner, err := resolver.GetOwner(c.UserContext(), kind, id)
		if err != nil {
			if goerrors.IsNotFound(err) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": kind + " not found",
				})
			}
			return WriteError(c, err)
		}

		if err := RequireOwnerOrAdmin(claims, Resource{Kind: kind, ID: id, OwnerID: owner}); err != nil {
			return WriteError(c, err)
		}

		return c.Next()
	}
}

// ClaimsFromFiber extracts the verified claims stored by Protected
func ClaimsFromFiber(c *fiber.Ctx) (AuthClaims, bool) {
	raw := c.Locals(ClaimsContextKey)
	if raw == nil {
		return nil, false
	}
	claims, ok := raw.(AuthClaims)
	return claims, ok
}

// WriteError maps an error onto its HTTP status and the platform-wide
// `{"error": <message>}` body shape. Nothing is silently swallowed: unknown
// errors come back as a 500 with a generic message.
func WriteError(c *fiber.Ctx, err error) error {
	status := ErrorStatusCode(err)
	message := ErrorMessage(err)

	if status == fiber.StatusInternalServerError {
		// do not leak internals in the response body
		message = "internal server error"
	}

	return c.Status(status).JSON(fiber.Map{"error": message})
}
