package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token kinds
const (
	TokenKindAccess  = "access"
	TokenKindRefresh = "refresh"
)

// UserClaims carries the caller identity recovered from the session token.
type UserClaims struct {
	jwt.RegisteredClaims
	IdentityID   uuid.UUID `json:"identity_id"`
	Phone        string    `json:"phone,omitempty"`
	Email        string    `json:"email,omitempty"`
	TokenVersion int       `json:"token_version"`
	Kind         string    `json:"kind"`
}

// ClaimsFor builds the claims of an identity.
func ClaimsFor(identity *Identity) *UserClaims {
	c := &UserClaims{
		IdentityID:   identity.ID,
		TokenVersion: identity.TokenVersion,
	}
	if identity.Phone != nil {
		c.Phone = *identity.Phone
	}
	if identity.Email != nil {
		c.Email = *identity.Email
	}
	return c
}
