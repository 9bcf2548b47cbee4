package identity

import (
	"context"
	"fmt"

	"github.com/lestrrat-go/jwx/v2/jwt"
)

// JWTVerifier verifies provider-issued access tokens against the
// provider's JWKS.
type JWTVerifier struct {
	jwksManager *JWKSManager
	issuer      string
}

// NewJWTVerifier creates a verifier for tokens minted by the given issuer
func NewJWTVerifier(jwksManager *JWKSManager, issuer string) *JWTVerifier {
	return &JWTVerifier{
		jwksManager: jwksManager,
		issuer:      issuer,
	}
}

var _ TokenVerifier = (*JWTVerifier)(nil)

// Verify parses and verifies an access token and extracts its claims
func (v *JWTVerifier) Verify(ctx context.Context, accessToken string) (*Claims, error) {
	keys, err := v.jwksManager.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get JWKS: %w", err)
	}

	token, err := jwt.Parse([]byte(accessToken), jwt.WithKeySet(keys), jwt.WithValidate(true))
	if err != nil {
		return nil, fmt.Errorf("failed to parse/verify token: %w", err)
	}

	if v.issuer != "" && token.Issuer() != v.issuer {
		return nil, fmt.Errorf("token issuer mismatch: expected %s, got %s", v.issuer, token.Issuer())
	}

	claims := &Claims{
		Sub: token.Subject(),
		Iss: token.Issuer(),
	}
	if !token.Expiration().IsZero() {
		claims.Exp = token.Expiration().Unix()
	}
	if !token.IssuedAt().IsZero() {
		claims.Iat = token.IssuedAt().Unix()
	}

	if email, ok := token.Get("email"); ok {
		if emailStr, ok := email.(string); ok {
			claims.Email = emailStr
		}
	}

	// Providers put the display name under user_metadata; fall back to a
	// top-level name claim.
	if meta, ok := token.Get("user_metadata"); ok {
		if metaMap, ok := meta.(map[string]any); ok {
			if name, ok := metaMap["name"].(string); ok {
				claims.Name = name
			}
		}
	}
	if claims.Name == "" {
		if name, ok := token.Get("name"); ok {
			if nameStr, ok := name.(string); ok {
				claims.Name = nameStr
			}
		}
	}

	return claims, nil
}
