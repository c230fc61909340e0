package user

import (
	"context"

	apperrors "moim-app-go/pkg/errors"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// UpsertProfile mirrors the identity provider's view of a user. Empty
// fields leave the stored value untouched.
func (s *Service) UpsertProfile(ctx context.Context, userID, email, name, avatarURL string) error {
	if userID == "" {
		return apperrors.ErrUnauthenticated
	}

	profile := Profile{UserID: userID}
	if email != "" {
		profile.Email = &email
	}
	if name != "" {
		profile.Name = &name
	}
	if avatarURL != "" {
		profile.AvatarURL = &avatarURL
	}

	return s.repo.UpsertProfile(ctx, &profile)
}
