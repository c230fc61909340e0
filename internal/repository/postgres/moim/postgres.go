package moim

import (
	"context"
	"errors"

	moimdomain "moim-app-go/internal/domain/moim"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(moimdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) CreateMoim(ctx context.Context, moim *moimdomain.Moim) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(moim).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return moimdomain.ErrDuplicateMoim
	}
	return err
}

func (r *PostgresRepository) AddParticipant(ctx context.Context, participant *moimdomain.Participant) error {
	err := r.db.WithContext(ctx).Create(participant).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return moimdomain.ErrAlreadyParticipant
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return moimdomain.ErrMoimNotFound
	}
	return err
}

func (r *PostgresRepository) GetMoimByInviteCode(ctx context.Context, code string) (*moimdomain.Moim, error) {
	var moim moimdomain.Moim
	if err := r.db.WithContext(ctx).Where("invite_code = ?", code).First(&moim).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, moimdomain.ErrMoimNotFound
		}
		return nil, err
	}
	return &moim, nil
}

func (r *PostgresRepository) GetMoimWithParticipantsByInviteCode(ctx context.Context, code string) (*moimdomain.Moim, error) {
	var moim moimdomain.Moim
	err := r.db.WithContext(ctx).
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("joined_at asc")
		}).
		Where("invite_code = ?", code).
		First(&moim).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, moimdomain.ErrMoimNotFound
	}
	if err != nil {
		return nil, err
	}
	return &moim, nil
}

func (r *PostgresRepository) GetParticipant(ctx context.Context, moimID, userID string) (*moimdomain.Participant, error) {
	var participant moimdomain.Participant
	if err := r.db.WithContext(ctx).Where("moim_id = ? AND user_id = ?", moimID, userID).First(&participant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, moimdomain.ErrParticipantNotFound
		}
		return nil, err
	}
	return &participant, nil
}

func (r *PostgresRepository) ListMoimsByCreator(ctx context.Context, userID string) ([]moimdomain.Moim, error) {
	var moims []moimdomain.Moim
	if err := r.db.WithContext(ctx).
		Where("creator_id = ?", userID).
		Order("created_at desc").
		Find(&moims).Error; err != nil {
		return nil, err
	}
	return moims, nil
}

func (r *PostgresRepository) ListParticipatedMoimIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&moimdomain.Participant{}).
		Where("user_id = ?", userID).
		Order("joined_at desc").
		Pluck("moim_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostgresRepository) ListMoimsByIDs(ctx context.Context, ids []string) ([]moimdomain.Moim, error) {
	if len(ids) == 0 {
		return []moimdomain.Moim{}, nil
	}
	var moims []moimdomain.Moim
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("created_at desc").
		Find(&moims).Error; err != nil {
		return nil, err
	}
	return moims, nil
}

func (r *PostgresRepository) CountParticipants(ctx context.Context, moimID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&moimdomain.Participant{}).
		Where("moim_id = ?", moimID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&moimdomain.Moim{}).
		Where("invite_code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) GetMoimTitleByURL(ctx context.Context, moimURL string) (string, error) {
	var moim moimdomain.Moim
	err := r.db.WithContext(ctx).
		Select("id", "title").
		Where("moim_url = ?", moimURL).
		First(&moim).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", moimdomain.ErrMoimNotFound
	}
	if err != nil {
		return "", err
	}
	return moim.Title, nil
}
