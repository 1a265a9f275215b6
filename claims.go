package tasks

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the closed claim set this system signs: session tokens
// carry UID, invite tokens carry Email. Anything else in a presented token
// is ignored.
type TokenClaims struct {
	jwt.RegisteredClaims
	UID   string `json:"uid,omitempty"`
	Email string `json:"email,omitempty"`
}

// IsSession reports whether the claims describe a session token.
func (c *TokenClaims) IsSession() bool {
	return c.UID != ""
}

// IsInvite reports whether the claims describe an invite token.
func (c *TokenClaims) IsInvite() bool {
	return c.Email != ""
}

// IssuedTime returns the token's issue time, zero when absent.
func (c *TokenClaims) IssuedTime() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// ExpiryTime returns the token's expiry, zero when absent.
func (c *TokenClaims) ExpiryTime() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}
