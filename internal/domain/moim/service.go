package moim

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "moim-app-go/pkg/errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	defaultInviteCodeAttempts = 10
	defaultCountConcurrency   = 4
)

type Options struct {
	InviteCodeAttempts int
	CountConcurrency   int
	CacheTTL           time.Duration
}

type Service struct {
	repo  Repository
	cache Cache
	opts  Options

	generateCode func(length int) (string, error)
	newID        func() string
}

func NewService(repo Repository, cache Cache, opts Options) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	if opts.InviteCodeAttempts <= 0 {
		opts.InviteCodeAttempts = defaultInviteCodeAttempts
	}
	if opts.CountConcurrency <= 0 {
		opts.CountConcurrency = defaultCountConcurrency
	}
	return &Service{
		repo:         repo,
		cache:        cache,
		opts:         opts,
		generateCode: GenerateCode,
		newID:        uuid.NewString,
	}
}

// CreateMoim inserts the moim and its creator membership in one transaction.
// The invite code is checked before insert; a unique violation at insert time
// means another writer took the code in between, and a fresh code is drawn.
func (s *Service) CreateMoim(ctx context.Context, userID, title, description string) (*Moim, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	title, err := normalizeTitle(title)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < s.opts.InviteCodeAttempts; attempt++ {
		code, err := s.generateCode(InviteCodeLength)
		if err != nil {
			return nil, err
		}
		taken, err := s.repo.IsCodeTaken(ctx, code)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		url, err := s.generateCode(URLLength)
		if err != nil {
			return nil, err
		}

		moim := Moim{
			ID:          s.newID(),
			Title:       title,
			Description: optionalText(description),
			CreatorID:   userID,
			InviteCode:  code,
			URL:         url,
		}

		err = s.repo.Transaction(ctx, func(tx Repository) error {
			if err := tx.CreateMoim(ctx, &moim); err != nil {
				return err
			}
			return tx.AddParticipant(ctx, &Participant{
				MoimID: moim.ID,
				UserID: userID,
				Role:   RoleCreator,
			})
		})
		if errors.Is(err, ErrDuplicateMoim) {
			continue
		}
		if err != nil {
			return nil, err
		}

		moim.ParticipantCount = 1
		return &moim, nil
	}

	return nil, ErrCodeGenerationFailed
}

// JoinMoimByInviteCode adds userID as a participant. Joining a moim the user
// already belongs to returns the moim without writing.
func (s *Service) JoinMoimByInviteCode(ctx context.Context, userID, code string) (*Moim, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	code = NormalizeInviteCode(code)
	if code == "" {
		return nil, ErrInviteCodeRequired
	}

	moim, err := s.moimByInviteCode(ctx, code)
	if err != nil {
		return nil, err
	}

	_, err = s.repo.GetParticipant(ctx, moim.ID, userID)
	if err == nil {
		return moim, nil
	}
	if !errors.Is(err, ErrParticipantNotFound) {
		return nil, err
	}

	err = s.repo.AddParticipant(ctx, &Participant{
		MoimID: moim.ID,
		UserID: userID,
		Role:   RoleParticipant,
	})
	if err != nil && !errors.Is(err, ErrAlreadyParticipant) {
		return nil, err
	}
	return moim, nil
}

// ListMoims returns the moims userID created or joined, created ones first,
// each with its participant count.
func (s *Service) ListMoims(ctx context.Context, userID string) ([]Moim, error) {
	if userID == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	var created []Moim
	var participatedIDs []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		created, err = s.repo.ListMoimsByCreator(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		participatedIDs, err = s.repo.ListParticipatedMoimIDs(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var participated []Moim
	if len(participatedIDs) > 0 {
		var err error
		participated, err = s.repo.ListMoimsByIDs(ctx, participatedIDs)
		if err != nil {
			return nil, err
		}
	}

	result := uniqueByID(created, participated)

	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(s.opts.CountConcurrency)
	for i := range result {
		g.Go(func() error {
			count, err := s.repo.CountParticipants(gctx, result[i].ID)
			if err != nil {
				return err
			}
			result[i].ParticipantCount = count
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return result, nil
}

// GetMoimByInviteCode loads the moim with its participant rows.
func (s *Service) GetMoimByInviteCode(ctx context.Context, code string) (*Moim, error) {
	code = NormalizeInviteCode(code)
	if code == "" {
		return nil, ErrInviteCodeRequired
	}

	moim, err := s.repo.GetMoimWithParticipantsByInviteCode(ctx, code)
	if err != nil {
		return nil, err
	}
	moim.ParticipantCount = int64(len(moim.Participants))
	return moim, nil
}

func (s *Service) moimByInviteCode(ctx context.Context, code string) (*Moim, error) {
	if cached, ok := s.cache.GetByInviteCode(ctx, code); ok {
		return cached, nil
	}

	moim, err := s.repo.GetMoimByInviteCode(ctx, code)
	if err != nil {
		return nil, err
	}
	s.cache.SetByInviteCode(ctx, code, moim, s.opts.CacheTTL)
	return moim, nil
}

func uniqueByID(groups ...[]Moim) []Moim {
	seen := make(map[string]struct{})
	result := make([]Moim, 0)
	for _, group := range groups {
		for _, moim := range group {
			if _, ok := seen[moim.ID]; ok {
				continue
			}
			seen[moim.ID] = struct{}{}
			result = append(result, moim)
		}
	}
	return result
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}

func optionalText(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
