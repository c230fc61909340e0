package moim

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	apperrors "moim-app-go/pkg/errors"
)

type fakeMoimRepo struct {
	mu           sync.Mutex
	moims        map[string]*Moim
	codes        map[string]string
	participants map[string]map[string]*Participant
	writes       int
	createErrs   []error
}

func newFakeMoimRepo() *fakeMoimRepo {
	return &fakeMoimRepo{
		moims:        make(map[string]*Moim),
		codes:        make(map[string]string),
		participants: make(map[string]map[string]*Participant),
	}
}

func (r *fakeMoimRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeMoimRepo) CreateMoim(ctx context.Context, moim *Moim) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return err
		}
	}
	if _, ok := r.codes[moim.InviteCode]; ok {
		return ErrDuplicateMoim
	}
	moim.CreatedAt = time.Now().UTC()
	stored := *moim
	r.moims[moim.ID] = &stored
	r.codes[moim.InviteCode] = moim.ID
	r.writes++
	return nil
}

func (r *fakeMoimRepo) AddParticipant(ctx context.Context, participant *Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	members, ok := r.participants[participant.MoimID]
	if !ok {
		members = make(map[string]*Participant)
		r.participants[participant.MoimID] = members
	}
	if _, exists := members[participant.UserID]; exists {
		return ErrAlreadyParticipant
	}
	stored := *participant
	members[participant.UserID] = &stored
	r.writes++
	return nil
}

func (r *fakeMoimRepo) GetMoimByInviteCode(ctx context.Context, code string) (*Moim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.codes[code]
	if !ok {
		return nil, ErrMoimNotFound
	}
	moim := *r.moims[id]
	return &moim, nil
}

func (r *fakeMoimRepo) GetMoimWithParticipantsByInviteCode(ctx context.Context, code string) (*Moim, error) {
	moim, err := r.GetMoimByInviteCode(ctx, code)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.participants[moim.ID] {
		moim.Participants = append(moim.Participants, *p)
	}
	return moim, nil
}

func (r *fakeMoimRepo) GetParticipant(ctx context.Context, moimID, userID string) (*Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[moimID][userID]
	if !ok {
		return nil, ErrParticipantNotFound
	}
	return p, nil
}

func (r *fakeMoimRepo) ListMoimsByCreator(ctx context.Context, userID string) ([]Moim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]Moim, 0)
	for _, m := range r.moims {
		if m.CreatorID == userID {
			result = append(result, *m)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeMoimRepo) ListParticipatedMoimIDs(ctx context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0)
	for moimID, members := range r.participants {
		if _, ok := members[userID]; ok {
			ids = append(ids, moimID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *fakeMoimRepo) ListMoimsByIDs(ctx context.Context, ids []string) ([]Moim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]Moim, 0, len(ids))
	for _, id := range ids {
		if m, ok := r.moims[id]; ok {
			result = append(result, *m)
		}
	}
	return result, nil
}

func (r *fakeMoimRepo) CountParticipants(ctx context.Context, moimID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.participants[moimID])), nil
}

func (r *fakeMoimRepo) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.codes[code]
	return ok, nil
}

func (r *fakeMoimRepo) GetMoimTitleByURL(ctx context.Context, moimURL string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.moims {
		if m.URL == moimURL {
			return m.Title, nil
		}
	}
	return "", ErrMoimNotFound
}

type countingCache struct {
	items map[string]Moim
	hits  int
}

func (c *countingCache) GetByInviteCode(ctx context.Context, code string) (*Moim, bool) {
	m, ok := c.items[code]
	if ok {
		c.hits++
	}
	return &m, ok
}

func (c *countingCache) SetByInviteCode(ctx context.Context, code string, moim *Moim, ttl time.Duration) {
	c.items[code] = *moim
}

func (c *countingCache) DeleteByInviteCode(ctx context.Context, code string) {
	delete(c.items, code)
}

func sequenceCodes(codes ...string) func(int) (string, error) {
	i := 0
	return func(length int) (string, error) {
		if i >= len(codes) {
			return "", fmt.Errorf("no more codes")
		}
		code := codes[i]
		i++
		return code, nil
	}
}

func TestCreateMoimSuccess(t *testing.T) {
	repo := newFakeMoimRepo()
	svc := NewService(repo, nil, Options{})

	result, err := svc.CreateMoim(context.Background(), "user-1", "  Book Club  ", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Title != "Book Club" {
		t.Fatalf("expected trimmed title, got %q", result.Title)
	}
	if len(result.InviteCode) != InviteCodeLength {
		t.Fatalf("expected code length %d, got %q", InviteCodeLength, result.InviteCode)
	}
	if len(result.URL) != URLLength {
		t.Fatalf("expected url length %d, got %q", URLLength, result.URL)
	}
	if result.Description != nil {
		t.Fatalf("expected nil description, got %q", *result.Description)
	}
	member, ok := repo.participants[result.ID]["user-1"]
	if !ok {
		t.Fatalf("expected creator membership")
	}
	if member.Role != RoleCreator {
		t.Fatalf("expected creator role, got %q", member.Role)
	}
	if result.ParticipantCount != 1 {
		t.Fatalf("expected participant count 1, got %d", result.ParticipantCount)
	}
}

func TestCreateMoimRequiresUser(t *testing.T) {
	repo := newFakeMoimRepo()
	svc := NewService(repo, nil, Options{})

	_, err := svc.CreateMoim(context.Background(), "", "Book Club", "")
	if !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if repo.writes != 0 {
		t.Fatalf("expected no writes, got %d", repo.writes)
	}
}

func TestCreateMoimValidatesTitle(t *testing.T) {
	svc := NewService(newFakeMoimRepo(), nil, Options{})

	if _, err := svc.CreateMoim(context.Background(), "user-1", "   ", ""); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}

	long := make([]rune, MaxTitleLength+1)
	for i := range long {
		long[i] = '모'
	}
	if _, err := svc.CreateMoim(context.Background(), "user-1", string(long), ""); !errors.Is(err, ErrTitleTooLong) {
		t.Fatalf("expected ErrTitleTooLong, got %v", err)
	}
}

func TestCreateMoimSkipsTakenCodes(t *testing.T) {
	repo := newFakeMoimRepo()
	repo.moims["existing"] = &Moim{ID: "existing", InviteCode: "aaaaaaaa"}
	repo.codes["aaaaaaaa"] = "existing"

	svc := NewService(repo, nil, Options{})
	svc.generateCode = sequenceCodes("aaaaaaaa", "ab12cd34", "url000000001")

	result, err := svc.CreateMoim(context.Background(), "user-1", "Book Club", "monthly")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.InviteCode != "ab12cd34" {
		t.Fatalf("expected ab12cd34, got %q", result.InviteCode)
	}
	if result.Description == nil || *result.Description != "monthly" {
		t.Fatalf("expected description monthly, got %v", result.Description)
	}
}

func TestCreateMoimRetriesOnInsertRace(t *testing.T) {
	repo := newFakeMoimRepo()
	repo.createErrs = []error{ErrDuplicateMoim}

	svc := NewService(repo, nil, Options{})
	svc.generateCode = sequenceCodes("racecode", "url000000001", "freecode", "url000000002")

	result, err := svc.CreateMoim(context.Background(), "user-1", "Book Club", "")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.InviteCode != "freecode" {
		t.Fatalf("expected second code, got %q", result.InviteCode)
	}
}

func TestCreateMoimGivesUpAfterAttempts(t *testing.T) {
	repo := newFakeMoimRepo()
	repo.codes["aaaaaaaa"] = "existing"

	svc := NewService(repo, nil, Options{InviteCodeAttempts: 3})
	svc.generateCode = func(int) (string, error) { return "aaaaaaaa", nil }

	_, err := svc.CreateMoim(context.Background(), "user-1", "Book Club", "")
	if !errors.Is(err, ErrCodeGenerationFailed) {
		t.Fatalf("expected ErrCodeGenerationFailed, got %v", err)
	}
}

func TestCreateMoimCodesAreUnique(t *testing.T) {
	repo := newFakeMoimRepo()
	svc := NewService(repo, nil, Options{})

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		result, err := svc.CreateMoim(context.Background(), "user-1", fmt.Sprintf("Moim %d", i), "")
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		if _, dup := seen[result.InviteCode]; dup {
			t.Fatalf("duplicate invite code %q", result.InviteCode)
		}
		seen[result.InviteCode] = struct{}{}
	}
}

func TestJoinMoimByInviteCodeSuccess(t *testing.T) {
	repo := newFakeMoimRepo()
	repo.moims["moim-1"] = &Moim{ID: "moim-1", Title: "Book Club", InviteCode: "ab12cd34", CreatorID: "owner"}
	repo.codes["ab12cd34"] = "moim-1"

	svc := NewService(repo, nil, Options{})
	result, err := svc.JoinMoimByInviteCode(context.Background(), "user-2", "  AB12CD34 ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.ID != "moim-1" {
		t.Fatalf("expected moim-1, got %s", result.ID)
	}
	member := repo.participants["moim-1"]["user-2"]
	if member == nil || member.Role != RoleParticipant {
		t.Fatalf("expected participant role, got %+v", member)
	}
}

func TestJoinMoimByInviteCodeIsIdempotent(t *testing.T) {
	repo := newFakeMoimRepo()
	repo.moims["moim-1"] = &Moim{ID: "moim-1", Title: "Book Club", InviteCode: "ab12cd34", CreatorID: "owner"}
	repo.codes["ab12cd34"] = "moim-1"

	svc := NewService(repo, nil, Options{})
	first, err := svc.JoinMoimByInviteCode(context.Background(), "user-2", "ab12cd34")
	if err != nil {
		t.Fatalf("first join: %v", err)
	}
	writes := repo.writes

	second, err := svc.JoinMoimByInviteCode(context.Background(), "user-2", "ab12cd34")
	if err != nil {
		t.Fatalf("second join: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same moim, got %s and %s", first.ID, second.ID)
	}
	if repo.writes != writes {
		t.Fatalf("expected no extra writes, got %d", repo.writes-writes)
	}
	if len(repo.participants["moim-1"]) != 1 {
		t.Fatalf("expected one membership, got %d", len(repo.participants["moim-1"]))
	}
}

func TestJoinMoimByInviteCodeNotFound(t *testing.T) {
	svc := NewService(newFakeMoimRepo(), nil, Options{})

	_, err := svc.JoinMoimByInviteCode(context.Background(), "user-1", "missing1")
	if !errors.Is(err, ErrMoimNotFound) {
		t.Fatalf("expected ErrMoimNotFound, got %v", err)
	}
	if apperrors.CodeOf(err) != apperrors.CodeNotFound {
		t.Fatalf("expected not found code, got %s", apperrors.CodeOf(err))
	}
}

func TestJoinMoimByInviteCodeRequiresUser(t *testing.T) {
	repo := newFakeMoimRepo()
	svc := NewService(repo, nil, Options{})

	_, err := svc.JoinMoimByInviteCode(context.Background(), "", "ab12cd34")
	if !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestJoinMoimUsesCache(t *testing.T) {
	repo := newFakeMoimRepo()
	repo.moims["moim-1"] = &Moim{ID: "moim-1", Title: "Book Club", InviteCode: "ab12cd34", CreatorID: "owner"}
	repo.codes["ab12cd34"] = "moim-1"
	cache := &countingCache{items: make(map[string]Moim)}

	svc := NewService(repo, cache, Options{CacheTTL: time.Minute})
	if _, err := svc.JoinMoimByInviteCode(context.Background(), "user-2", "ab12cd34"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := svc.JoinMoimByInviteCode(context.Background(), "user-3", "ab12cd34"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if cache.hits != 1 {
		t.Fatalf("expected one cache hit, got %d", cache.hits)
	}
}

func TestListMoimsUnionsAndCounts(t *testing.T) {
	repo := newFakeMoimRepo()
	svc := NewService(repo, nil, Options{})
	ctx := context.Background()

	own, err := svc.CreateMoim(ctx, "user-1", "Own", "")
	if err != nil {
		t.Fatalf("create own: %v", err)
	}
	other, err := svc.CreateMoim(ctx, "user-2", "Other", "")
	if err != nil {
		t.Fatalf("create other: %v", err)
	}
	if _, err := svc.JoinMoimByInviteCode(ctx, "user-1", other.InviteCode); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := svc.JoinMoimByInviteCode(ctx, "user-3", own.InviteCode); err != nil {
		t.Fatalf("join: %v", err)
	}

	moims, err := svc.ListMoims(ctx, "user-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(moims) != 2 {
		t.Fatalf("expected 2 moims without duplicates, got %d", len(moims))
	}
	if moims[0].ID != own.ID {
		t.Fatalf("expected created moim first, got %s", moims[0].Title)
	}
	for _, m := range moims {
		if m.ParticipantCount != 2 {
			t.Fatalf("expected 2 participants in %s, got %d", m.Title, m.ParticipantCount)
		}
	}
}

func TestListMoimsRequiresUser(t *testing.T) {
	svc := NewService(newFakeMoimRepo(), nil, Options{})
	if _, err := svc.ListMoims(context.Background(), ""); !errors.Is(err, apperrors.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestGetMoimByInviteCodeIncludesParticipants(t *testing.T) {
	repo := newFakeMoimRepo()
	svc := NewService(repo, nil, Options{})
	ctx := context.Background()

	created, err := svc.CreateMoim(ctx, "user-1", "Book Club", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.JoinMoimByInviteCode(ctx, "user-2", created.InviteCode); err != nil {
		t.Fatalf("join: %v", err)
	}

	result, err := svc.GetMoimByInviteCode(ctx, created.InviteCode)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(result.Participants) != 2 || result.ParticipantCount != 2 {
		t.Fatalf("expected 2 participants, got %d/%d", len(result.Participants), result.ParticipantCount)
	}
}

func TestBookClubJoinScenario(t *testing.T) {
	repo := newFakeMoimRepo()
	svc := NewService(repo, nil, Options{})
	svc.generateCode = sequenceCodes("ab12cd34", "bookclub0001")
	ctx := context.Background()

	created, err := svc.CreateMoim(ctx, "user-1", "Book Club", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.InviteCode != "ab12cd34" {
		t.Fatalf("expected ab12cd34, got %q", created.InviteCode)
	}

	if _, err := svc.JoinMoimByInviteCode(ctx, "user-2", "ab12cd34"); err != nil {
		t.Fatalf("join: %v", err)
	}

	moims, err := svc.ListMoims(ctx, "user-2")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(moims) != 1 || moims[0].ParticipantCount != 2 {
		t.Fatalf("expected Book Club with 2 participants, got %+v", moims)
	}
}
