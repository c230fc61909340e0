package state

import (
	"context"

	"moim-app-go/internal/domain/mannam"
	apperrors "moim-app-go/pkg/errors"
	"moim-app-go/pkg/observable"
)

// Mannams holds the opened mannam, its responses and their tally.
type Mannams struct {
	session *Session
	service MannamService
	status  status

	current   *observable.Value[*mannam.Mannam]
	responses *observable.Value[[]mannam.Response]
	counts    observable.Readable[mannam.Counts]
}

func NewMannams(session *Session, service MannamService, deps Deps) *Mannams {
	current := observable.NewValue[*mannam.Mannam](nil)
	responses := observable.NewValue([]mannam.Response{})
	return &Mannams{
		session:   session,
		service:   service,
		status:    newStatus(deps.Metrics, deps.logger()),
		current:   current,
		responses: responses,
		counts: observable.Derived2(
			observable.Readable[*mannam.Mannam](current),
			observable.Readable[[]mannam.Response](responses),
			func(current *mannam.Mannam, responses []mannam.Response) mannam.Counts {
				id := ""
				if current != nil {
					id = current.ID
				}
				return mannam.Tally(id, responses)
			},
		),
	}
}

func (m *Mannams) Current() observable.Readable[*mannam.Mannam] { return m.current }

func (m *Mannams) Responses() observable.Readable[[]mannam.Response] { return m.responses }

func (m *Mannams) ResponseCounts() observable.Readable[mannam.Counts] { return m.counts }

func (m *Mannams) Loading() observable.Readable[bool] { return m.status.loading }

func (m *Mannams) Error() observable.Readable[string] { return m.status.err }

func (m *Mannams) CreateMannam(ctx context.Context, input mannam.CreateInput) (*mannam.Mannam, error) {
	return track(ctx, m.status, "mannams.create", func(ctx context.Context) (*mannam.Mannam, error) {
		userID := m.session.CurrentUserID()
		if userID == "" {
			return nil, apperrors.ErrUnauthenticated
		}
		return m.service.CreateMannam(ctx, userID, input)
	})
}

func (m *Mannams) UpdateMannamStatus(ctx context.Context, id, status string) (*mannam.Mannam, error) {
	return track(ctx, m.status, "mannams.update_status", func(ctx context.Context) (*mannam.Mannam, error) {
		userID := m.session.CurrentUserID()
		if userID == "" {
			return nil, apperrors.ErrUnauthenticated
		}
		updated, err := m.service.UpdateMannamStatus(ctx, userID, id, status)
		if err != nil {
			return nil, err
		}
		if current := m.current.Get(); current != nil && current.ID == updated.ID {
			m.current.Set(updated)
		}
		return updated, nil
	})
}

// SubmitMannamResponse upserts the user's response. When the mannam is the
// opened one, the user's row in Responses is replaced or appended.
func (m *Mannams) SubmitMannamResponse(ctx context.Context, mannamID, status, comment string) (*mannam.Response, error) {
	return track(ctx, m.status, "mannams.submit_response", func(ctx context.Context) (*mannam.Response, error) {
		userID := m.session.CurrentUserID()
		if userID == "" {
			return nil, apperrors.ErrUnauthenticated
		}
		response, err := m.service.SubmitResponse(ctx, userID, mannamID, status, comment)
		if err != nil {
			return nil, err
		}
		if current := m.current.Get(); current != nil && current.ID == mannamID {
			m.responses.Update(func(list []mannam.Response) []mannam.Response {
				return replaceResponse(list, *response)
			})
		}
		return response, nil
	})
}

// LoadMannam opens a mannam and scopes Responses to it. Current is switched
// before Responses so Responses never holds rows of another mannam than
// Current.
func (m *Mannams) LoadMannam(ctx context.Context, id string) (*mannam.Mannam, error) {
	return track(ctx, m.status, "mannams.load", func(ctx context.Context) (*mannam.Mannam, error) {
		userID := m.session.CurrentUserID()
		if userID == "" {
			return nil, apperrors.ErrUnauthenticated
		}
		found, err := m.service.GetMannam(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		responses, err := m.service.ListResponses(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		m.current.Set(found)
		m.responses.Set(responses)
		return found, nil
	})
}

func replaceResponse(list []mannam.Response, response mannam.Response) []mannam.Response {
	next := make([]mannam.Response, 0, len(list)+1)
	replaced := false
	for _, existing := range list {
		if existing.MannamID == response.MannamID && existing.UserID == response.UserID {
			next = append(next, response)
			replaced = true
			continue
		}
		next = append(next, existing)
	}
	if !replaced {
		next = append(next, response)
	}
	return next
}
