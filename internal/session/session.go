package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey int

const (
	tokenKey contextKey = iota
	identityKey
)

// WithToken stores the raw bearer token in the context for forwarding to
// the upstream API.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// TokenFromContext returns the bearer token, or "" when the request was
// anonymous.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// WithIdentity stores the caller's identity in the context.
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the caller's identity, or "" for anonymous
// requests.
func IdentityFromContext(ctx context.Context) string {
	identity, _ := ctx.Value(identityKey).(string)
	return identity
}

// BearerToken extracts the token from an Authorization header value.
// Returns "" when the header is missing or not a bearer scheme.
func BearerToken(authHeader string) string {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// IdentityFromToken derives a stable identity string from a JWT without
// verifying its signature. The upstream API is the authority on token
// validity; here the token only scopes the cart, so a forged token gains
// nothing beyond a differently scoped empty cart. Issuers disagree on
// which claim carries the subject, so the common ones are probed in
// order. Returns "" when the token cannot be decoded or carries none of
// the known claims.
func IdentityFromToken(tokenString string) string {
	if tokenString == "" {
		return ""
	}

	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return ""
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}

	for _, key := range []string{"sub", "user_id", "id", "identity"} {
		val, ok := claims[key]
		if !ok || val == nil {
			continue
		}
		switch v := val.(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}
