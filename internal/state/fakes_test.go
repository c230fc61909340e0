package state

import (
	"context"
	"sync"

	"moim-app-go/internal/auth"
	"moim-app-go/internal/domain/mannam"
	"moim-app-go/internal/domain/moim"
)

type fakeProvider struct {
	mu        sync.Mutex
	session   *auth.Session
	err       error
	listeners []auth.Listener
	signOuts  int
}

func (p *fakeProvider) SignInWithPassword(ctx context.Context, email, password string) (*auth.Session, error) {
	if p.err != nil {
		return nil, p.err
	}
	session := &auth.Session{AccessToken: "token", User: auth.Principal{ID: "user-1", Email: email}}
	p.session = session
	return session, nil
}

func (p *fakeProvider) SignInWithOAuth(ctx context.Context, provider auth.OAuthProvider) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return "https://auth.example.com/authorize?provider=" + string(provider), nil
}

func (p *fakeProvider) SignUp(ctx context.Context, email, password string) (*auth.Session, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &auth.Session{User: auth.Principal{ID: "user-new", Email: email}}, nil
}

func (p *fakeProvider) SignOut(ctx context.Context) error {
	if p.err != nil {
		return p.err
	}
	p.signOuts++
	p.session = nil
	return nil
}

func (p *fakeProvider) GetSession(ctx context.Context) (*auth.Session, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.session, nil
}

func (p *fakeProvider) SetSession(ctx context.Context, accessToken, refreshToken string) (*auth.Session, error) {
	if p.err != nil {
		return nil, p.err
	}
	session := &auth.Session{AccessToken: accessToken, RefreshToken: refreshToken, User: auth.Principal{ID: "user-oauth"}}
	p.session = session
	p.emit(auth.EventSignedIn, session)
	return session, nil
}

func (p *fakeProvider) OnAuthStateChange(listener auth.Listener) func() {
	p.mu.Lock()
	p.listeners = append(p.listeners, listener)
	index := len(p.listeners) - 1
	p.mu.Unlock()
	return func() {
		p.mu.Lock()
		p.listeners[index] = nil
		p.mu.Unlock()
	}
}

func (p *fakeProvider) emit(event auth.Event, session *auth.Session) {
	p.mu.Lock()
	listeners := append([]auth.Listener(nil), p.listeners...)
	p.mu.Unlock()
	for _, listener := range listeners {
		if listener != nil {
			listener(event, session)
		}
	}
}

type fakeMoimService struct {
	moims  []moim.Moim
	err    error
	calls  int
	lastID string
}

func (s *fakeMoimService) CreateMoim(ctx context.Context, userID, title, description string) (*moim.Moim, error) {
	s.calls++
	s.lastID = userID
	if s.err != nil {
		return nil, s.err
	}
	return &moim.Moim{ID: "moim-new", Title: title, CreatorID: userID, InviteCode: "ab12cd34", ParticipantCount: 1}, nil
}

func (s *fakeMoimService) JoinMoimByInviteCode(ctx context.Context, userID, code string) (*moim.Moim, error) {
	s.calls++
	s.lastID = userID
	if s.err != nil {
		return nil, s.err
	}
	return &moim.Moim{ID: "moim-joined", InviteCode: code}, nil
}

func (s *fakeMoimService) ListMoims(ctx context.Context, userID string) ([]moim.Moim, error) {
	s.calls++
	s.lastID = userID
	if s.err != nil {
		return nil, s.err
	}
	return s.moims, nil
}

func (s *fakeMoimService) GetMoimByInviteCode(ctx context.Context, code string) (*moim.Moim, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.moims {
		if s.moims[i].InviteCode == code {
			found := s.moims[i]
			return &found, nil
		}
	}
	return nil, moim.ErrMoimNotFound
}

type fakeMannamService struct {
	mannams   map[string]*mannam.Mannam
	responses []mannam.Response
	err       error
	calls     int
}

func newFakeMannamService() *fakeMannamService {
	return &fakeMannamService{mannams: make(map[string]*mannam.Mannam)}
}

func (s *fakeMannamService) CreateMannam(ctx context.Context, userID string, input mannam.CreateInput) (*mannam.Mannam, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	created := &mannam.Mannam{ID: "mannam-new", MoimID: input.MoimID, CreatorID: userID, Title: input.Title, Status: mannam.StatusPending}
	s.mannams[created.ID] = created
	return created, nil
}

func (s *fakeMannamService) UpdateMannamStatus(ctx context.Context, userID, id, status string) (*mannam.Mannam, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	found, ok := s.mannams[id]
	if !ok {
		return nil, mannam.ErrMannamNotFound
	}
	updated := *found
	updated.Status = status
	s.mannams[id] = &updated
	return &updated, nil
}

func (s *fakeMannamService) SubmitResponse(ctx context.Context, userID, mannamID, status, comment string) (*mannam.Response, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &mannam.Response{ID: "resp-" + userID, MannamID: mannamID, UserID: userID, Status: status}, nil
}

func (s *fakeMannamService) GetMannam(ctx context.Context, userID, id string) (*mannam.Mannam, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	found, ok := s.mannams[id]
	if !ok {
		return nil, mannam.ErrMannamNotFound
	}
	copied := *found
	return &copied, nil
}

func (s *fakeMannamService) ListResponses(ctx context.Context, userID, mannamID string) ([]mannam.Response, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	result := make([]mannam.Response, 0)
	for _, r := range s.responses {
		if r.MannamID == mannamID {
			result = append(result, r)
		}
	}
	return result, nil
}
