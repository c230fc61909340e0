package pages

import (
	"context"

	apperrors "moim-app-go/pkg/errors"
	"moim-app-go/pkg/logger"
)

const (
	FallbackMoimTitle   = "모임"
	FallbackMannamTitle = "만남"
)

type MoimTitles interface {
	GetMoimTitleByURL(ctx context.Context, moimURL string) (string, error)
}

type MannamTitles interface {
	GetMannamTitleByURL(ctx context.Context, moimURL, mannamURL string) (string, error)
}

// Service resolves titles for public page loads. Lookups never fail; a
// missing row or a store error yields the fallback title.
type Service struct {
	moims   MoimTitles
	mannams MannamTitles
	log     logger.Logger
}

func NewService(moims MoimTitles, mannams MannamTitles, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{moims: moims, mannams: mannams, log: log}
}

func (s *Service) InviteTitle(ctx context.Context, moimURL string) string {
	title, err := s.moims.GetMoimTitleByURL(ctx, moimURL)
	if err != nil || title == "" {
		s.logLookup("pages.invite_title", err, "moim_url", moimURL)
		title = FallbackMoimTitle
	}
	return title + " 초대"
}

func (s *Service) ConfirmTitle(ctx context.Context, moimURL, mannamURL string) string {
	title, err := s.mannams.GetMannamTitleByURL(ctx, moimURL, mannamURL)
	if err != nil || title == "" {
		s.logLookup("pages.confirm_title", err, "moim_url", moimURL, "mannam_url", mannamURL)
		title = FallbackMannamTitle
	}
	return title + " 확정하기"
}

func (s *Service) logLookup(op string, err error, fields ...any) {
	if err == nil || apperrors.CodeOf(err) == apperrors.CodeNotFound {
		return
	}
	s.log.InternalError(op+": lookup failed", err, fields...)
}
