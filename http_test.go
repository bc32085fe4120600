package auth_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/relatoapp/relato-auth"
)

type staticOwners struct {
	owners map[string]string
}

func (r staticOwners) GetOwner(ctx context.Context, kind, id string) (string, error) {
	if owner, ok := r.owners[id]; ok {
		return owner, nil
	}
	return "", goerrors.New("record not found", goerrors.CategoryNotFound).
		WithCode(goerrors.CodeNotFound)
}

type middlewareFixture struct {
	app   *fiber.App
	codec *auth.HS256Codec
	now   time.Time
}

func newMiddlewareFixture(t *testing.T) *middlewareFixture {
	t.Helper()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := auth.NewHS256Codec(testSigningKey, auth.WithCodecClock(frozenClock(now)))
	verifier := auth.NewTokenVerifier(codec)

	owners := staticOwners{owners: map[string]string{
		"pub-1": "owner-1",
	}}

	app := fiber.New()
	app.Use(auth.Protected(verifier))

	app.Get("/me", func(c *fiber.Ctx) error {
		claims, ok := auth.ClaimsFromFiber(c)
		require.True(t, ok)
		return c.JSON(fiber.Map{"email": claims.Email()})
	})

	app.Get("/admin", auth.AdminOnly(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	app.Delete("/publications/:id", auth.OwnerOrAdmin(owners, "publication", "id"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	return &middlewareFixture{app: app, codec: codec, now: now}
}

func (f *middlewareFixture) tokenFor(t *testing.T, subject, role string) string {
	t.Helper()

	token, err := f.codec.Encode(&auth.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(f.now),
			ExpiresAt: jwt.NewNumericDate(f.now.Add(time.Hour)),
		},
		UserEmail: subject + "@example.com",
		UserRole:  role,
	})
	require.NoError(t, err)
	return token
}

func (f *middlewareFixture) request(t *testing.T, method, path, authorization string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}

	res, err := f.app.Test(req)
	require.NoError(t, err)
	return res
}

func errorBody(t *testing.T, res *http.Response) string {
	t.Helper()

	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	payload := map[string]string{}
	require.NoError(t, json.Unmarshal(raw, &payload))
	require.Contains(t, payload, "error")
	return payload["error"]
}

func TestProtectedRejectsMissingHeader(t *testing.T) {
	f := newMiddlewareFixture(t)

	res := f.request(t, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.NotEmpty(t, errorBody(t, res))
}

func TestProtectedRejectsWrongScheme(t *testing.T) {
	f := newMiddlewareFixture(t)
	token := f.tokenFor(t, "owner-1", auth.RoleUser)

	for _, header := range []string{
		"Token " + token,
		"bearer " + token,
		"Bearer  " + token,
		token,
	} {
		res := f.request(t, http.MethodGet, "/me", header)
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode, "header %q", header)
	}
}

func TestProtectedAcceptsValidToken(t *testing.T) {
	f := newMiddlewareFixture(t)
	token := f.tokenFor(t, "owner-1", auth.RoleUser)

	res := f.request(t, http.MethodGet, "/me", "Bearer "+token)
	require.Equal(t, http.StatusOK, res.StatusCode)

	defer res.Body.Close()
	payload := map[string]string{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	assert.Equal(t, "owner-1@example.com", payload["email"])
}

func TestProtectedRejectsExpiredToken(t *testing.T) {
	f := newMiddlewareFixture(t)

	stale, err := f.codec.Encode(&auth.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "owner-1",
			IssuedAt:  jwt.NewNumericDate(f.now.Add(-3 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(f.now.Add(-time.Hour)),
		},
		UserRole: auth.RoleUser,
	})
	require.NoError(t, err)

	res := f.request(t, http.MethodGet, "/me", "Bearer "+stale)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "token is expired", errorBody(t, res))
}

func TestAdminOnly(t *testing.T) {
	f := newMiddlewareFixture(t)

	res := f.request(t, http.MethodGet, "/admin", "Bearer "+f.tokenFor(t, "a1", auth.RoleAdmin))
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// valid token, insufficient role: 403, not 401
	res = f.request(t, http.MethodGet, "/admin", "Bearer "+f.tokenFor(t, "u1", auth.RoleUser))
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	res = f.request(t, http.MethodGet, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
}

func TestOwnerOrAdminMiddleware(t *testing.T) {
	f := newMiddlewareFixture(t)

	cases := []struct {
		name    string
		subject string
		role    string
		status  int
	}{
		{"owner", "owner-1", auth.RoleUser, http.StatusNoContent},
		{"other user", "someone-else", auth.RoleUser, http.StatusForbidden},
		{"admin", uuid.NewString(), auth.RoleAdmin, http.StatusNoContent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			token := f.tokenFor(t, tc.subject, tc.role)
			res := f.request(t, http.MethodDelete, "/publications/pub-1", "Bearer "+token)
			assert.Equal(t, tc.status, res.StatusCode)
		})
	}
}

func TestOwnerOrAdminUnknownResource(t *testing.T) {
	f := newMiddlewareFixture(t)
	token := f.tokenFor(t, "owner-1", auth.RoleUser)

	res := f.request(t, http.MethodDelete, "/publications/ghost", "Bearer "+token)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestProtectedStoresClaimsInUserContext(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := auth.NewHS256Codec(testSigningKey, auth.WithCodecClock(frozenClock(now)))
	verifier := auth.NewTokenVerifier(codec)

	app := fiber.New()
	app.Use(auth.Protected(verifier))
	app.Get("/ctx", func(c *fiber.Ctx) error {
		claims := auth.MustGetClaims(c.UserContext())
		return c.JSON(fiber.Map{"subject": claims.Subject()})
	})

	token, err := codec.Encode(&auth.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ctx-user",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		UserRole: auth.RoleUser,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ctx", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	defer res.Body.Close()
	payload := map[string]string{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	assert.Equal(t, "ctx-user", payload["subject"])
}
