package context

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/todo-server/internal/model"
)

func TestManager_SetAndGetPrincipal(t *testing.T) {
	m := NewManager()
	user := &model.PublicUser{ID: uuid.New(), Email: "a@x.com", Name: "A"}
	principal := model.Principal{UserID: user.ID, User: user, Token: "tok"}

	ctx := m.SetPrincipalToContext(context.Background(), principal)

	got, ok := m.GetPrincipalFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, principal, got)
}

func TestManager_GetPrincipal_Missing(t *testing.T) {
	m := NewManager()

	_, ok := m.GetPrincipalFromContext(context.Background())
	assert.False(t, ok)

	type otherKey struct{}
	ctx := context.WithValue(context.Background(), otherKey{}, "not a principal")
	_, ok = m.GetPrincipalFromContext(ctx)
	assert.False(t, ok)
}

func TestManager_OverwritesPrincipal(t *testing.T) {
	m := NewManager()
	first := model.Principal{UserID: uuid.New(), Token: "first"}
	second := model.Principal{UserID: uuid.New(), Token: "second"}

	ctx := m.SetPrincipalToContext(context.Background(), first)
	ctx = m.SetPrincipalToContext(ctx, second)

	got, ok := m.GetPrincipalFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, second, got)
}
