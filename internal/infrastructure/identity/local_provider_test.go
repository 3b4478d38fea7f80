package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-api/internal/application/auth"
	"github.com/jhoicas/warehouse-api/internal/domain"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/memory"
	"github.com/jhoicas/warehouse-api/pkg/jwt"
)

const localSecret = "test-secret-key-for-unit-tests"

func newLocal() *LocalProvider {
	return NewLocalProvider(memory.NewStore().Credentials(), LocalConfig{Secret: localSecret, Issuer: "test"})
}

func TestLocal_SignUpYSignIn(t *testing.T) {
	p := newLocal()
	ctx := context.Background()

	s, err := p.SignUp(ctx, "ana@example.com", "secreto123")
	require.NoError(t, err)
	require.NotEmpty(t, s.UserID)

	claims, err := jwt.Parse(localSecret, s.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, s.UserID, claims.UserID())
	assert.False(t, claims.IsRefresh())

	again, err := p.SignIn(ctx, "ana@example.com", "secreto123")
	require.NoError(t, err)
	assert.Equal(t, s.UserID, again.UserID)

	_, err = p.SignIn(ctx, "ana@example.com", "otra")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = p.SignIn(ctx, "nadie@example.com", "secreto123")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = p.SignUp(ctx, "ana@example.com", "secreto123")
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLocal_Refresh(t *testing.T) {
	p := newLocal()
	ctx := context.Background()
	s, err := p.SignUp(ctx, "ana@example.com", "secreto123")
	require.NoError(t, err)

	renewed, err := p.Refresh(ctx, s.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, s.UserID, renewed.UserID)

	_, err = p.Refresh(ctx, s.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized, "un access token no sirve para renovar")
}

func TestLocal_ChangePassword(t *testing.T) {
	p := newLocal()
	ctx := context.Background()
	s, err := p.SignUp(ctx, "ana@example.com", "secreto123")
	require.NoError(t, err)

	err = p.ChangePassword(ctx, auth.PasswordChange{UserID: s.UserID, Current: "equivocada", New: "nueva12345"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, p.ChangePassword(ctx, auth.PasswordChange{UserID: s.UserID, Current: "secreto123", New: "nueva12345"}))
	_, err = p.SignIn(ctx, "ana@example.com", "nueva12345")
	assert.NoError(t, err)
	_, err = p.SignIn(ctx, "ana@example.com", "secreto123")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
