// Package identity wraps the hosted auth provider this service delegates
// all identity management to. The provider owns credentials, sessions,
// and token issuance; this package only orchestrates calls against it and
// verifies the tokens it mints.
package identity

import (
	"context"
	"time"

	"github.com/embodywellness/member-api/internal/models"
	"golang.org/x/oauth2"
)

// Session is an authenticated provider session: the issued token pair
// plus the identity it belongs to.
type Session struct {
	Token    *oauth2.Token
	Identity models.Identity
}

// Claims are the verified claims of a provider-issued access token
type Claims struct {
	Sub   string
	Email string
	Name  string
	Exp   int64
	Iat   int64
	Iss   string
}

// Provider is the identity operation surface of the hosted auth service.
// Implementations must return errors wrapping models.ErrAuthFailure for
// credential rejections so callers can surface a human-readable message.
type Provider interface {
	SignUp(ctx context.Context, email, password, name string) (*Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) (*models.Identity, error)
}

// TokenVerifier verifies provider-issued access tokens without a network
// round trip per request.
type TokenVerifier interface {
	Verify(ctx context.Context, accessToken string) (*Claims, error)
}

// tokenFromResponse builds an oauth2.Token from the provider's token
// response fields.
func tokenFromResponse(accessToken, refreshToken, tokenType string, expiresIn int64) *oauth2.Token {
	if tokenType == "" {
		tokenType = "bearer"
	}
	token := &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    tokenType,
	}
	if expiresIn > 0 {
		token.Expiry = time.Now().Add(time.Duration(expiresIn) * time.Second)
	}
	return token
}
