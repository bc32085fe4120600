package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/relatoapp/relato-auth"
)

type testConfig struct {
	signingKey string
	issuer     string
	expiration int
	clockSkew  int
}

func (c testConfig) GetSigningKey() string   { return c.signingKey }
func (c testConfig) GetIssuer() string       { return c.issuer }
func (c testConfig) GetTokenExpiration() int { return c.expiration }
func (c testConfig) GetClockSkew() int       { return c.clockSkew }

func TestNewFromConfig(t *testing.T) {
	store, user := newStubStore(t)

	cfg := testConfig{
		signingKey: string(testSigningKey),
		issuer:     "relato",
		expiration: 4,
	}

	issuer, verifier := auth.NewFromConfig(cfg, store)

	token, err := issuer.Issue(context.Background(), user.Email, "s3cret-passw0rd")
	require.NoError(t, err)

	claims, err := verifier.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, "relato", claims.RegisteredClaims.Issuer)
	assert.WithinDuration(t, time.Now().Add(4*time.Hour), claims.Expires(), time.Minute)
}

func TestNewFromConfigDefaults(t *testing.T) {
	store, user := newStubStore(t)

	cfg := testConfig{signingKey: string(testSigningKey)}

	issuer, verifier := auth.NewFromConfig(cfg, store)

	token, err := issuer.Issue(context.Background(), user.Email, "s3cret-passw0rd")
	require.NoError(t, err)

	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(auth.DefaultTokenLifetime), claims.Expires(), time.Minute)
}
