package auth

import "context"

var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithClaimsContext sets the verified AuthClaims in the given context
func WithClaimsContext(ctx context.Context, claims AuthClaims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, claims)
}

// GetClaims extracts the verified AuthClaims from the context
func GetClaims(ctx context.Context) (AuthClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(AuthClaims)
	return raw, ok
}

// MustGetClaims extracts claims the middleware is guaranteed to have set.
// Handlers behind Protected can use it to stamp ownership on new resources.
func MustGetClaims(ctx context.Context) AuthClaims {
	claims, ok := GetClaims(ctx)
	if !ok {
		panic("auth: claims missing from context; handler not behind Protected middleware")
	}
	return claims
}
