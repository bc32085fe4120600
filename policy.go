package auth

import "context"

// OwnerResolver is the narrow interface a resource store (publications,
// comments, profiles) exposes so handlers can build the ownership descriptor
// handed to RequireOwnerOrAdmin.
type OwnerResolver interface {
	GetOwner(ctx context.Context, kind, id string) (string, error)
}

// RequireRole allows the request iff the verified claims carry exactly the
// given role. There is no hierarchy between the two defined roles; the check
// is plain string equality.
func RequireRole(claims AuthClaims, role UserRole) error {
	if claims == nil {
		return ErrForbidden
	}

	if !claims.HasRole(role) {
		return forbidden(map[string]any{
			"required_role": role,
			"role":          claims.Role(),
		})
	}

	return nil
}

// RequireAdmin is shorthand for the administrator-only endpoints
func RequireAdmin(claims AuthClaims) error {
	return RequireRole(claims, RoleAdmin)
}

// RequireOwnerOrAdmin allows the request iff the verified subject owns the
// resource or the claims carry the admin role. Both inputs must already be
// trusted: claims from the verifier, the descriptor from the resource store.
func RequireOwnerOrAdmin(claims AuthClaims, resource Resource) error {
	if claims == nil {
		return ErrForbidden
	}

	if claims.Subject() != "" && claims.Subject() == resource.OwnerID {
		return nil
	}

	if claims.IsAdmin() {
		return nil
	}

	return forbidden(map[string]any{
		"resource": resource.Kind,
		"id":       resource.ID,
	})
}

func forbidden(metadata map[string]any) error {
	clone := ErrForbidden.Clone()
	if clone == nil {
		return ErrForbidden
	}
	clone.Source = ErrForbidden
	return clone.WithMetadata(metadata)
}
