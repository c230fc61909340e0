package mannam

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"moim-app-go/internal/domain/moim"
	apperrors "moim-app-go/pkg/errors"

	"github.com/google/uuid"
)

const defaultURLAttempts = 10

type Options struct {
	// StrictStatusTransitions rejects status updates on mannams that are no
	// longer pending.
	StrictStatusTransitions bool
}

type Service struct {
	repo Repository
	opts Options

	generateURL func(length int) (string, error)
	newID       func() string
}

func NewService(repo Repository, opts Options) *Service {
	return &Service{
		repo:        repo,
		opts:        opts,
		generateURL: moim.GenerateCode,
		newID:       uuid.NewString,
	}
}

func (s *Service) CreateMannam(ctx context.Context, userID string, input CreateInput) (*Mannam, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	if strings.TrimSpace(input.MoimID) == "" {
		return nil, ErrMoimRequired
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return nil, ErrTitleTooLong
	}
	if input.Duration < 0 || input.Duration > MaxDuration {
		return nil, ErrInvalidDuration
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return nil, ErrInvalidDateRange
	}
	if err := s.requireMember(ctx, strings.TrimSpace(input.MoimID), userID); err != nil {
		return nil, err
	}

	var description *string
	if trimmed := strings.TrimSpace(input.Description); trimmed != "" {
		description = &trimmed
	}

	for attempt := 0; attempt < defaultURLAttempts; attempt++ {
		url, err := s.generateURL(URLLength)
		if err != nil {
			return nil, err
		}

		mannam := Mannam{
			ID:          s.newID(),
			MoimID:      strings.TrimSpace(input.MoimID),
			CreatorID:   userID,
			Title:       title,
			Description: description,
			StartDate:   input.StartDate,
			EndDate:     input.EndDate,
			Duration:    input.Duration,
			Status:      StatusPending,
			URL:         url,
		}
		err = s.repo.CreateMannam(ctx, &mannam)
		if errors.Is(err, ErrDuplicateMannam) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &mannam, nil
	}

	return nil, ErrURLGenerationFailed
}

// UpdateMannamStatus moves a mannam to confirmed or cancelled. userID must
// belong to the mannam's moim.
func (s *Service) UpdateMannamStatus(ctx context.Context, userID, id, status string) (*Mannam, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	if status != StatusConfirmed && status != StatusCancelled {
		return nil, ErrInvalidStatus
	}
	if _, err := s.GetMannam(ctx, userID, id); err != nil {
		return nil, err
	}

	var from string
	if s.opts.StrictStatusTransitions {
		from = StatusPending
	}
	return s.repo.UpdateStatus(ctx, id, status, from)
}

// SubmitResponse records userID's availability, replacing any earlier
// response to the same mannam.
func (s *Service) SubmitResponse(ctx context.Context, userID, mannamID, status, comment string) (*Response, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	if !IsResponseStatus(status) {
		return nil, ErrInvalidResponse
	}
	if _, err := s.GetMannam(ctx, userID, mannamID); err != nil {
		return nil, err
	}

	response := Response{
		ID:       s.newID(),
		MannamID: mannamID,
		UserID:   userID,
		Status:   status,
	}
	if trimmed := strings.TrimSpace(comment); trimmed != "" {
		response.Comment = &trimmed
	}
	return s.repo.UpsertResponse(ctx, &response)
}

// GetMannam loads a mannam visible to userID.
func (s *Service) GetMannam(ctx context.Context, userID, id string) (*Mannam, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	mannam, err := s.repo.GetMannamByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, mannam.MoimID, userID); err != nil {
		return nil, err
	}
	return mannam, nil
}

func (s *Service) ListMannams(ctx context.Context, userID, moimID string) ([]Mannam, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	if err := s.requireMember(ctx, moimID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListMannamsByMoim(ctx, moimID)
}

func (s *Service) ListResponses(ctx context.Context, userID, mannamID string) ([]Response, error) {
	if _, err := s.GetMannam(ctx, userID, mannamID); err != nil {
		return nil, err
	}
	return s.repo.ListResponses(ctx, mannamID)
}

func (s *Service) requireMember(ctx context.Context, moimID, userID string) error {
	ok, err := s.repo.IsMoimParticipant(ctx, moimID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotMoimMember
	}
	return nil
}
