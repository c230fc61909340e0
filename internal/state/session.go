package state

import (
	"context"
	"sync"

	"moim-app-go/internal/auth"
	"moim-app-go/pkg/observable"
)

// Session mirrors the identity provider's current principal.
type Session struct {
	provider auth.Provider
	status   status

	user            *observable.Value[*auth.Principal]
	isAuthenticated observable.Readable[bool]

	mu          sync.Mutex
	unsubscribe func()
}

func NewSession(provider auth.Provider, deps Deps) *Session {
	user := observable.NewValue[*auth.Principal](nil)
	return &Session{
		provider: provider,
		status:   newStatus(deps.Metrics, deps.logger()),
		user:     user,
		isAuthenticated: observable.Derived(observable.Readable[*auth.Principal](user), func(p *auth.Principal) bool {
			return p != nil
		}),
	}
}

func (s *Session) User() observable.Readable[*auth.Principal] { return s.user }

func (s *Session) IsAuthenticated() observable.Readable[bool] { return s.isAuthenticated }

func (s *Session) Loading() observable.Readable[bool] { return s.status.loading }

func (s *Session) Error() observable.Readable[string] { return s.status.err }

// CurrentUserID returns the signed-in principal's id, or "" when signed out.
func (s *Session) CurrentUserID() string {
	if user := s.user.Get(); user != nil {
		return user.ID
	}
	return ""
}

// Init loads the provider's current session and follows its change
// notifications until Close.
func (s *Session) Init(ctx context.Context) error {
	s.mu.Lock()
	if s.unsubscribe == nil {
		s.unsubscribe = s.provider.OnAuthStateChange(func(event auth.Event, session *auth.Session) {
			s.user.Set(principalOf(session))
		})
	}
	s.mu.Unlock()

	_, err := track(ctx, s.status, "auth.init", func(ctx context.Context) (struct{}, error) {
		session, err := s.provider.GetSession(ctx)
		if err != nil {
			return struct{}{}, err
		}
		s.user.Set(principalOf(session))
		return struct{}{}, nil
	})
	return err
}

func (s *Session) Close() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

func (s *Session) LoginWithPassword(ctx context.Context, email, password string) (*auth.Principal, error) {
	return track(ctx, s.status, "auth.login_password", func(ctx context.Context) (*auth.Principal, error) {
		session, err := s.provider.SignInWithPassword(ctx, email, password)
		if err != nil {
			return nil, err
		}
		principal := principalOf(session)
		s.user.Set(principal)
		return principal, nil
	})
}

// LoginWithSocial starts a federated sign-in and returns the URL the user
// must visit. The principal is set by CompleteSocialLogin once the redirect
// delivers the tokens.
func (s *Session) LoginWithSocial(ctx context.Context, provider string) (string, error) {
	return track(ctx, s.status, "auth.login_social", func(ctx context.Context) (string, error) {
		parsed, err := auth.ParseOAuthProvider(provider)
		if err != nil {
			return "", validationError(err)
		}
		return s.provider.SignInWithOAuth(ctx, parsed)
	})
}

// CompleteSocialLogin finishes the flow LoginWithSocial started, using the
// tokens the provider appended to the redirect URL.
func (s *Session) CompleteSocialLogin(ctx context.Context, accessToken, refreshToken string) (*auth.Principal, error) {
	return track(ctx, s.status, "auth.login_social_callback", func(ctx context.Context) (*auth.Principal, error) {
		session, err := s.provider.SetSession(ctx, accessToken, refreshToken)
		if err != nil {
			return nil, err
		}
		principal := principalOf(session)
		s.user.Set(principal)
		return principal, nil
	})
}

func (s *Session) Signup(ctx context.Context, email, password string) (*auth.Principal, error) {
	return track(ctx, s.status, "auth.signup", func(ctx context.Context) (*auth.Principal, error) {
		session, err := s.provider.SignUp(ctx, email, password)
		if err != nil {
			return nil, err
		}
		principal := principalOf(session)
		s.user.Set(principal)
		return principal, nil
	})
}

func (s *Session) Logout(ctx context.Context) error {
	_, err := track(ctx, s.status, "auth.logout", func(ctx context.Context) (struct{}, error) {
		if err := s.provider.SignOut(ctx); err != nil {
			return struct{}{}, err
		}
		s.user.Set(nil)
		return struct{}{}, nil
	})
	return err
}

func principalOf(session *auth.Session) *auth.Principal {
	if session == nil || session.User.ID == "" {
		return nil
	}
	principal := session.User
	return &principal
}
