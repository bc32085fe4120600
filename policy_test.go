package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	auth "github.com/relatoapp/relato-auth"
)

func userClaims(subject string) *auth.JWTClaims {
	c := &auth.JWTClaims{UserRole: auth.RoleUser}
	c.RegisteredClaims.Subject = subject
	return c
}

func adminClaims(subject string) *auth.JWTClaims {
	c := &auth.JWTClaims{UserRole: auth.RoleAdmin}
	c.RegisteredClaims.Subject = subject
	return c
}

func TestRequireRole(t *testing.T) {
	assert.NoError(t, auth.RequireRole(userClaims("u1"), auth.RoleUser))
	assert.NoError(t, auth.RequireRole(adminClaims("a1"), auth.RoleAdmin))

	err := auth.RequireRole(userClaims("u1"), auth.RoleAdmin)
	assert.True(t, auth.IsForbiddenError(err))

	// no role hierarchy: an admin is not implicitly a user
	err = auth.RequireRole(adminClaims("a1"), auth.RoleUser)
	assert.True(t, auth.IsForbiddenError(err))

	err = auth.RequireRole(nil, auth.RoleUser)
	assert.True(t, auth.IsForbiddenError(err))
}

func TestRequireAdmin(t *testing.T) {
	assert.NoError(t, auth.RequireAdmin(adminClaims("a1")))
	assert.True(t, auth.IsForbiddenError(auth.RequireAdmin(userClaims("u1"))))
	assert.True(t, auth.IsForbiddenError(auth.RequireAdmin(nil)))
}

func TestRequireOwnerOrAdmin(t *testing.T) {
	resource := auth.Resource{Kind: "publication", ID: "p1", OwnerID: "u1"}

	cases := []struct {
		name    string
		claims  auth.AuthClaims
		allowed bool
	}{
		{"owner", userClaims("u1"), true},
		{"other user", userClaims("u2"), false},
		{"admin non-owner", adminClaims("a1"), true},
		{"admin owner", adminClaims("u1"), true},
		{"nil claims", nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := auth.RequireOwnerOrAdmin(tc.claims, resource)
			if tc.allowed {
				assert.NoError(t, err)
				return
			}
			assert.True(t, auth.IsForbiddenError(err))
		})
	}
}

func TestRequireOwnerOrAdminEmptySubject(t *testing.T) {
	// a resource with no recorded owner must not match a token with an
	// empty subject
	resource := auth.Resource{Kind: "comment", ID: "c1", OwnerID: ""}

	err := auth.RequireOwnerOrAdmin(userClaims(""), resource)
	assert.True(t, auth.IsForbiddenError(err))
}
