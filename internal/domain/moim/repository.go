package moim

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	CreateMoim(ctx context.Context, moim *Moim) error
	AddParticipant(ctx context.Context, participant *Participant) error
	GetMoimByInviteCode(ctx context.Context, code string) (*Moim, error)
	GetMoimWithParticipantsByInviteCode(ctx context.Context, code string) (*Moim, error)
	GetParticipant(ctx context.Context, moimID, userID string) (*Participant, error)
	ListMoimsByCreator(ctx context.Context, userID string) ([]Moim, error)
	ListParticipatedMoimIDs(ctx context.Context, userID string) ([]string, error)
	ListMoimsByIDs(ctx context.Context, ids []string) ([]Moim, error)
	CountParticipants(ctx context.Context, moimID string) (int64, error)
	IsCodeTaken(ctx context.Context, code string) (bool, error)
	GetMoimTitleByURL(ctx context.Context, moimURL string) (string, error)
}
