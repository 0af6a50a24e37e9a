package feedback

import (
	"context"

	"github.com/google/uuid"
	types "github.com/starpathlabs/constellation-backend/internal/domain"
	"github.com/starpathlabs/constellation-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type NoteRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.BetaNote) (*types.BetaNote, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.BetaNote, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.BetaNote, error)
	FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) (int64, error)
}

type noteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNoteRepo(db *gorm.DB, baseLog *logger.Logger) NoteRepo {
	repoLog := baseLog.With("repo", "BetaNoteRepo")
	return &noteRepo{db: db, log: repoLog}
}

func (r *noteRepo) Create(ctx context.Context, tx *gorm.DB, row *types.BetaNote) (*types.BetaNote, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *noteRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.BetaNote, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.BetaNote
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *noteRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.BetaNote, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.BetaNote
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *noteRepo) FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(userIDs) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Delete(&types.BetaNote{})
	return res.RowsAffected, res.Error
}
