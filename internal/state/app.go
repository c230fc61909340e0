package state

import (
	"context"

	"moim-app-go/internal/auth"
	"moim-app-go/internal/domain/mannam"
	"moim-app-go/internal/domain/moim"
	apperrors "moim-app-go/pkg/errors"
	"moim-app-go/pkg/logger"
	"moim-app-go/pkg/metrics"
)

type MoimService interface {
	CreateMoim(ctx context.Context, userID, title, description string) (*moim.Moim, error)
	JoinMoimByInviteCode(ctx context.Context, userID, code string) (*moim.Moim, error)
	ListMoims(ctx context.Context, userID string) ([]moim.Moim, error)
	GetMoimByInviteCode(ctx context.Context, code string) (*moim.Moim, error)
}

type MannamService interface {
	CreateMannam(ctx context.Context, userID string, input mannam.CreateInput) (*mannam.Mannam, error)
	UpdateMannamStatus(ctx context.Context, userID, id, status string) (*mannam.Mannam, error)
	SubmitResponse(ctx context.Context, userID, mannamID, status, comment string) (*mannam.Response, error)
	GetMannam(ctx context.Context, userID, id string) (*mannam.Mannam, error)
	ListResponses(ctx context.Context, userID, mannamID string) ([]mannam.Response, error)
}

type Deps struct {
	Metrics *metrics.Metrics
	Log     logger.Logger
}

func (d Deps) logger() logger.Logger {
	if d.Log == nil {
		return logger.Nop()
	}
	return d.Log
}

// App owns every state container. It is passed explicitly to whatever
// drives the workflows (CLI commands, tests).
type App struct {
	Session *Session
	Moims   *Moims
	Mannams *Mannams
}

func NewApp(provider auth.Provider, moims MoimService, mannams MannamService, deps Deps) *App {
	session := NewSession(provider, deps)
	return &App{
		Session: session,
		Moims:   NewMoims(session, moims, deps),
		Mannams: NewMannams(session, mannams, deps),
	}
}

func (a *App) Init(ctx context.Context) error {
	return a.Session.Init(ctx)
}

func (a *App) Close() {
	a.Session.Close()
}

func validationError(err error) error {
	return apperrors.Wrap(apperrors.CodeValidation, err, err.Error())
}
