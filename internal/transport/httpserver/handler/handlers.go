package handler

import (
	"context"

	"moim-app-go/internal/domain/mannam"
	"moim-app-go/internal/domain/moim"
	"moim-app-go/pkg/logger"
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
	ListMannams(ctx context.Context, userID, moimID string) ([]mannam.Mannam, error)
	ListResponses(ctx context.Context, userID, mannamID string) ([]mannam.Response, error)
}

type PageService interface {
	InviteTitle(ctx context.Context, moimURL string) string
	ConfirmTitle(ctx context.Context, moimURL, mannamURL string) string
}

type Handlers struct {
	Moims   MoimService
	Mannams MannamService
	Pages   PageService
	log     logger.Logger
}

func New(moims MoimService, mannams MannamService, pages PageService, log logger.Logger) *Handlers {
	if log == nil {
		log = logger.Nop()
	}
	return &Handlers{
		Moims:   moims,
		Mannams: mannams,
		Pages:   pages,
		log:     log,
	}
}
