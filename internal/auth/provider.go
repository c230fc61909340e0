package auth

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Principal is the identity provider's view of the signed-in user.
type Principal struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         Principal
}

// Expired reports whether the access token is past its expiry. A zero
// expiry never expires.
func (s *Session) Expired(now time.Time) bool {
	if s == nil || s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Before(s.ExpiresAt)
}

type Event string

const (
	EventSignedIn       Event = "SIGNED_IN"
	EventSignedOut      Event = "SIGNED_OUT"
	EventUserUpdated    Event = "USER_UPDATED"
	EventTokenRefreshed Event = "TOKEN_REFRESHED"
)

// Listener receives auth state changes. session is nil after sign-out.
type Listener func(event Event, session *Session)

type OAuthProvider string

const (
	ProviderGoogle OAuthProvider = "google"
	ProviderKakao  OAuthProvider = "kakao"
	ProviderApple  OAuthProvider = "apple"
)

func ParseOAuthProvider(value string) (OAuthProvider, error) {
	provider := OAuthProvider(strings.ToLower(strings.TrimSpace(value)))
	switch provider {
	case ProviderGoogle, ProviderKakao, ProviderApple:
		return provider, nil
	default:
		return "", fmt.Errorf("unsupported oauth provider %q", value)
	}
}

type Provider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	// SignInWithOAuth returns the provider authorize URL. The session arrives
	// later through SetSession.
	SignInWithOAuth(ctx context.Context, provider OAuthProvider) (string, error)
	// SignUp returns the created user's session. AccessToken is empty when
	// the account still needs email confirmation.
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
	GetSession(ctx context.Context) (*Session, error)
	// SetSession completes a federated sign-in with the tokens from the
	// OAuth redirect.
	SetSession(ctx context.Context, accessToken, refreshToken string) (*Session, error)
	OnAuthStateChange(listener Listener) (unsubscribe func())
}

// TokenVerifier resolves a bearer access token to its principal.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (Principal, error)
}

// APIError is a non-2xx answer from the identity provider.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("auth: status %d: %s", e.Status, e.Message)
}
