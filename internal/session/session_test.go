package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc.def.ghi", BearerToken("Bearer abc.def.ghi"))
	assert.Equal(t, "abc.def.ghi", BearerToken("bearer abc.def.ghi"))
	assert.Empty(t, BearerToken(""))
	assert.Empty(t, BearerToken("Basic dXNlcjpwYXNz"))
	assert.Empty(t, BearerToken("Bearer"))
}

func TestIdentityFromToken_SubClaim(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"sub": "user-42"})
	assert.Equal(t, "user-42", IdentityFromToken(token))
}

func TestIdentityFromToken_ClaimPriority(t *testing.T) {
	// "sub" wins even when other candidates are present.
	token := signToken(t, jwt.MapClaims{
		"sub":     "user-42",
		"user_id": "other",
	})
	assert.Equal(t, "user-42", IdentityFromToken(token))
}

func TestIdentityFromToken_FallbackClaims(t *testing.T) {
	assert.Equal(t, "u1", IdentityFromToken(signToken(t, jwt.MapClaims{"user_id": "u1"})))
	assert.Equal(t, "u2", IdentityFromToken(signToken(t, jwt.MapClaims{"id": "u2"})))
	assert.Equal(t, "u3", IdentityFromToken(signToken(t, jwt.MapClaims{"identity": "u3"})))
}

func TestIdentityFromToken_NumericClaim(t *testing.T) {
	// Some issuers put a numeric user ID in the identity claim.
	token := signToken(t, jwt.MapClaims{"identity": 17})
	assert.Equal(t, "17", IdentityFromToken(token))
}

func TestIdentityFromToken_IgnoresSignature(t *testing.T) {
	// Identity derivation does not verify; a token signed with any key
	// still yields its subject.
	token := signToken(t, jwt.MapClaims{"sub": "user-42", "exp": time.Now().Add(-time.Hour).Unix()})
	assert.Equal(t, "user-42", IdentityFromToken(token))
}

func TestIdentityFromToken_Malformed(t *testing.T) {
	assert.Empty(t, IdentityFromToken(""))
	assert.Empty(t, IdentityFromToken("not-a-jwt"))
	assert.Empty(t, IdentityFromToken("a.b.c"))
}

func TestIdentityFromToken_NoKnownClaims(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"role": "customer"})
	assert.Empty(t, IdentityFromToken(token))
}

func TestContextRoundTrip(t *testing.T) {
	ctx := WithToken(context.Background(), "tok")
	ctx = WithIdentity(ctx, "user-42")

	assert.Equal(t, "tok", TokenFromContext(ctx))
	assert.Equal(t, "user-42", IdentityFromContext(ctx))
}

func TestContextDefaults(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, TokenFromContext(ctx))
	assert.Empty(t, IdentityFromContext(ctx))
}
