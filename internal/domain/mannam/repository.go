package mannam

import "context"

type Repository interface {
	CreateMannam(ctx context.Context, mannam *Mannam) error
	GetMannamByID(ctx context.Context, id string) (*Mannam, error)
	ListMannamsByMoim(ctx context.Context, moimID string) ([]Mannam, error)
	// UpdateStatus sets status and returns the updated row. A non-empty
	// fromStatus restricts the update to rows currently in that status.
	UpdateStatus(ctx context.Context, id, status, fromStatus string) (*Mannam, error)
	UpsertResponse(ctx context.Context, response *Response) (*Response, error)
	ListResponses(ctx context.Context, mannamID string) ([]Response, error)
	GetMannamTitleByURL(ctx context.Context, moimURL, mannamURL string) (string, error)
	IsMoimParticipant(ctx context.Context, moimID, userID string) (bool, error)
}
