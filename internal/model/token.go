package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenClaims holds the identity and expiry carried by a bearer token.
type TokenClaims struct {
	UserID    uuid.UUID
	ExpiresAt time.Time
}

// TokenManager issues and validates bearer tokens.
type TokenManager interface {
	Issue(userID uuid.UUID) (string, error)
	Verify(token string) (TokenClaims, error)
	// DecodeUnverified reads claims without checking the signature or expiry.
	// It must only be used where the token is about to be invalidated.
	DecodeUnverified(token string) (TokenClaims, error)
}

// RevocationRegistry remembers tokens invalidated before their natural expiry.
type RevocationRegistry interface {
	Revoke(token string, expiresAt time.Time)
	IsRevoked(token string) bool
}
