package state

import (
	"context"
	"testing"

	"moim-app-go/internal/auth"
	apperrors "moim-app-go/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionInitLoadsAndFollowsProvider(t *testing.T) {
	provider := &fakeProvider{session: &auth.Session{User: auth.Principal{ID: "user-1"}}}
	session := NewSession(provider, Deps{})

	require.NoError(t, session.Init(context.Background()))
	assert.True(t, session.IsAuthenticated().Get())
	assert.Equal(t, "user-1", session.CurrentUserID())

	provider.emit(auth.EventSignedOut, nil)
	assert.False(t, session.IsAuthenticated().Get())
	assert.Nil(t, session.User().Get())

	provider.emit(auth.EventSignedIn, &auth.Session{User: auth.Principal{ID: "user-2"}})
	assert.Equal(t, "user-2", session.CurrentUserID())

	session.Close()
	provider.emit(auth.EventSignedOut, nil)
	assert.Equal(t, "user-2", session.CurrentUserID())
}

func TestSessionLoginSetsPrincipal(t *testing.T) {
	provider := &fakeProvider{}
	session := NewSession(provider, Deps{})

	var loadingSeen []bool
	session.Loading().Subscribe(func(v bool) { loadingSeen = append(loadingSeen, v) })

	principal, err := session.LoginWithPassword(context.Background(), "a@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", principal.ID)
	assert.True(t, session.IsAuthenticated().Get())
	assert.Equal(t, []bool{false, true, false}, loadingSeen)
	assert.Empty(t, session.Error().Get())
}

func TestSessionLoginFailureStoresMessage(t *testing.T) {
	provider := &fakeProvider{err: apperrors.New(apperrors.CodeUnauthenticated, "Invalid login credentials")}
	session := NewSession(provider, Deps{})

	_, err := session.LoginWithPassword(context.Background(), "a@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnauthenticated, apperrors.CodeOf(err))
	assert.Equal(t, "Invalid login credentials", session.Error().Get())
	assert.False(t, session.Loading().Get())
	assert.False(t, session.IsAuthenticated().Get())
}

func TestSessionLoginWithSocial(t *testing.T) {
	provider := &fakeProvider{}
	session := NewSession(provider, Deps{})

	url, err := session.LoginWithSocial(context.Background(), "Google")
	require.NoError(t, err)
	assert.Contains(t, url, "provider=google")
	assert.Nil(t, session.User().Get())

	_, err = session.LoginWithSocial(context.Background(), "github")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
	assert.NotEmpty(t, session.Error().Get())
}

func TestSessionCompleteSocialLogin(t *testing.T) {
	provider := &fakeProvider{}
	session := NewSession(provider, Deps{})
	require.NoError(t, session.Init(context.Background()))
	defer session.Close()
	assert.False(t, session.IsAuthenticated().Get())

	principal, err := session.CompleteSocialLogin(context.Background(), "oauth-access", "oauth-refresh")
	require.NoError(t, err)
	assert.Equal(t, "user-oauth", principal.ID)
	assert.Equal(t, "user-oauth", session.CurrentUserID())
	assert.True(t, session.IsAuthenticated().Get())
	assert.Equal(t, "oauth-refresh", provider.session.RefreshToken)
}

func TestSessionCompleteSocialLoginRejectedToken(t *testing.T) {
	provider := &fakeProvider{err: apperrors.New(apperrors.CodeUnauthenticated, "invalid token")}
	session := NewSession(provider, Deps{})

	_, err := session.CompleteSocialLogin(context.Background(), "forged", "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnauthenticated, apperrors.CodeOf(err))
	assert.Equal(t, "invalid token", session.Error().Get())
	assert.False(t, session.IsAuthenticated().Get())
}

func TestSessionSignupAndLogout(t *testing.T) {
	provider := &fakeProvider{}
	session := NewSession(provider, Deps{})

	principal, err := session.Signup(context.Background(), "new@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-new", principal.ID)
	assert.True(t, session.IsAuthenticated().Get())

	require.NoError(t, session.Logout(context.Background()))
	assert.False(t, session.IsAuthenticated().Get())
	assert.Equal(t, 1, provider.signOuts)
}
