package mannam

import (
	"context"
	"errors"
	"time"

	mannamdomain "moim-app-go/internal/domain/mannam"
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

func (r *PostgresRepository) CreateMannam(ctx context.Context, mannam *mannamdomain.Mannam) error {
	err := r.db.WithContext(ctx).Create(mannam).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return mannamdomain.ErrDuplicateMannam
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return moimdomain.ErrMoimNotFound
	}
	return err
}

func (r *PostgresRepository) GetMannamByID(ctx context.Context, id string) (*mannamdomain.Mannam, error) {
	var mannam mannamdomain.Mannam
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&mannam).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, mannamdomain.ErrMannamNotFound
		}
		return nil, err
	}
	return &mannam, nil
}

func (r *PostgresRepository) ListMannamsByMoim(ctx context.Context, moimID string) ([]mannamdomain.Mannam, error) {
	var mannams []mannamdomain.Mannam
	if err := r.db.WithContext(ctx).
		Where("moim_id = ?", moimID).
		Order("created_at desc").
		Find(&mannams).Error; err != nil {
		return nil, err
	}
	return mannams, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id, status, fromStatus string) (*mannamdomain.Mannam, error) {
	var updated *mannamdomain.Mannam
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&mannamdomain.Mannam{}).Where("id = ?", id)
		if fromStatus != "" {
			query = query.Where("status = ?", fromStatus)
		}
		result := query.Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
		if result.Error != nil {
			return result.Error
		}

		repo := &PostgresRepository{db: tx}
		mannam, err := repo.GetMannamByID(ctx, id)
		if err != nil {
			return err
		}
		if result.RowsAffected == 0 {
			return mannamdomain.ErrInvalidTransition
		}
		updated = mannam
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *PostgresRepository) UpsertResponse(ctx context.Context, response *mannamdomain.Response) (*mannamdomain.Response, error) {
	response.UpdatedAt = time.Now().UTC()
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "mannam_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "comment", "updated_at"}),
		}).
		Create(response).Error
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return nil, mannamdomain.ErrMannamNotFound
	}
	if err != nil {
		return nil, err
	}

	var stored mannamdomain.Response
	if err := r.db.WithContext(ctx).
		Where("mannam_id = ? AND user_id = ?", response.MannamID, response.UserID).
		First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *PostgresRepository) ListResponses(ctx context.Context, mannamID string) ([]mannamdomain.Response, error) {
	var responses []mannamdomain.Response
	if err := r.db.WithContext(ctx).
		Where("mannam_id = ?", mannamID).
		Order("created_at asc").
		Find(&responses).Error; err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *PostgresRepository) GetMannamTitleByURL(ctx context.Context, moimURL, mannamURL string) (string, error) {
	var row struct {
		Title string `gorm:"column:title"`
	}
	result := r.db.WithContext(ctx).
		Table("mannams").
		Select("mannams.title").
		Joins("join moims on moims.id = mannams.moim_id").
		Where("moims.moim_url = ? AND mannams.mannam_url = ?", moimURL, mannamURL).
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		return "", result.Error
	}
	if result.RowsAffected == 0 {
		return "", mannamdomain.ErrMannamNotFound
	}
	return row.Title, nil
}

func (r *PostgresRepository) IsMoimParticipant(ctx context.Context, moimID, userID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&moimdomain.Participant{}).
		Where("moim_id = ? AND user_id = ?", moimID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
