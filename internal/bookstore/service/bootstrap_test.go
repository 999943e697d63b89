package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/bookstore/internal/bookstore/domain"
	"github.com/stretchr/testify/require"
)

func TestBootstrap(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := BootstrapInput{Username: "root", Email: "Root@Example.com", Password: "secret1"}

	done, err := f.bootstrap.IsBootstrapped(ctx)
	require.NoError(t, err)
	require.False(t, done)

	_, err = f.bootstrap.Bootstrap(ctx, "wrong", in)
	require.ErrorIs(t, err, ErrBootstrapUnauthorized)

	_, err = f.bootstrap.Bootstrap(ctx, "bootstrap-token", BootstrapInput{Username: "root"})
	require.ErrorIs(t, err, ErrValidation)

	p, err := f.bootstrap.Bootstrap(ctx, "bootstrap-token", in)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, p.Role)
	require.Equal(t, "root@example.com", p.Email)
	require.False(t, p.OTPEnabled)

	done, err = f.bootstrap.IsBootstrapped(ctx)
	require.NoError(t, err)
	require.True(t, done)

	in.Username, in.Email = "root2", "root2@example.com"
	_, err = f.bootstrap.Bootstrap(ctx, "bootstrap-token", in)
	require.ErrorIs(t, err, ErrBootstrapAlready)

	res, err := f.sessions.Login(ctx, "root@example.com", "secret1")
	require.NoError(t, err)
	require.IsType(t, SetupRequired{}, res)
}

func TestBootstrap_Disabled(t *testing.T) {
	f := newFixture(t)
	f.bootstrap.Token = ""
	require.False(t, f.bootstrap.Enabled())

	_, err := f.bootstrap.Bootstrap(context.Background(), "", BootstrapInput{Username: "root", Email: "root@example.com", Password: "secret1"})
	require.ErrorIs(t, err, ErrBootstrapDisabled)
}

func TestBootstrap_DuplicateCredential(t *testing.T) {
	f := newFixture(t)
	f.signup(t, "root", "secret1")

	_, err := f.bootstrap.Bootstrap(context.Background(), "bootstrap-token", BootstrapInput{Username: "root", Email: "x@example.com", Password: "secret1"})
	require.ErrorIs(t, err, ErrDuplicateCredential)
}
