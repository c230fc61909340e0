package state

import (
	"context"

	"moim-app-go/internal/auth"
	"moim-app-go/internal/domain/moim"
	apperrors "moim-app-go/pkg/errors"
	"moim-app-go/pkg/observable"
)

// Moims holds the signed-in user's moim list and the moim opened by invite
// code.
type Moims struct {
	session *Session
	service MoimService
	status  status

	list    *observable.Value[[]moim.Moim]
	current *observable.Value[*moim.Moim]
	mine    observable.Readable[[]moim.Moim]
}

func NewMoims(session *Session, service MoimService, deps Deps) *Moims {
	list := observable.NewValue([]moim.Moim{})
	return &Moims{
		session: session,
		service: service,
		status:  newStatus(deps.Metrics, deps.logger()),
		list:    list,
		current: observable.NewValue[*moim.Moim](nil),
		mine: observable.Derived2(session.User(), observable.Readable[[]moim.Moim](list), func(user *auth.Principal, moims []moim.Moim) []moim.Moim {
			if user == nil {
				return []moim.Moim{}
			}
			return moims
		}),
	}
}

func (m *Moims) List() observable.Readable[[]moim.Moim] { return m.list }

// Mine is the moim list while someone is signed in and empty otherwise.
func (m *Moims) Mine() observable.Readable[[]moim.Moim] { return m.mine }

func (m *Moims) Current() observable.Readable[*moim.Moim] { return m.current }

func (m *Moims) Loading() observable.Readable[bool] { return m.status.loading }

func (m *Moims) Error() observable.Readable[string] { return m.status.err }

func (m *Moims) CreateMoim(ctx context.Context, title, description string) (*moim.Moim, error) {
	return track(ctx, m.status, "moims.create", func(ctx context.Context) (*moim.Moim, error) {
		userID := m.session.CurrentUserID()
		if userID == "" {
			return nil, apperrors.ErrUnauthenticated
		}
		created, err := m.service.CreateMoim(ctx, userID, title, description)
		if err != nil {
			return nil, err
		}
		m.list.Update(func(list []moim.Moim) []moim.Moim {
			next := make([]moim.Moim, 0, len(list)+1)
			next = append(next, *created)
			return append(next, list...)
		})
		return created, nil
	})
}

func (m *Moims) JoinMoimByInviteCode(ctx context.Context, code string) (*moim.Moim, error) {
	return track(ctx, m.status, "moims.join", func(ctx context.Context) (*moim.Moim, error) {
		userID := m.session.CurrentUserID()
		if userID == "" {
			return nil, apperrors.ErrUnauthenticated
		}
		return m.service.JoinMoimByInviteCode(ctx, userID, code)
	})
}

// LoadMoims replaces the list with the moims the user created or joined.
// The list is cleared before the fetch starts.
func (m *Moims) LoadMoims(ctx context.Context) ([]moim.Moim, error) {
	return track(ctx, m.status, "moims.load", func(ctx context.Context) ([]moim.Moim, error) {
		m.list.Set([]moim.Moim{})
		userID := m.session.CurrentUserID()
		if userID == "" {
			return nil, apperrors.ErrUnauthenticated
		}
		moims, err := m.service.ListMoims(ctx, userID)
		if err != nil {
			return nil, err
		}
		m.list.Set(moims)
		return moims, nil
	})
}

func (m *Moims) LoadMoimByInviteCode(ctx context.Context, code string) (*moim.Moim, error) {
	return track(ctx, m.status, "moims.load_by_invite_code", func(ctx context.Context) (*moim.Moim, error) {
		found, err := m.service.GetMoimByInviteCode(ctx, code)
		if err != nil {
			m.current.Set(nil)
			return nil, err
		}
		m.current.Set(found)
		return found, nil
	})
}
