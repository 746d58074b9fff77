package model

import (
	"context"

	"github.com/google/uuid"
)

// Principal is the identity attached to a request by the session gate.
// User is only populated by the full gate.
type Principal struct {
	UserID uuid.UUID
	User   *PublicUser
	Token  string
}

type ContextManager interface {
	SetPrincipalToContext(ctx context.Context, principal Principal) context.Context
	GetPrincipalFromContext(ctx context.Context) (Principal, bool)
}
