package workshop

import (
	"context"

	"github.com/google/uuid"
	types "github.com/starpathlabs/constellation-backend/internal/domain"
	"github.com/starpathlabs/constellation-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StatusRepo interface {
	GetByUserWorkshop(ctx context.Context, tx *gorm.DB, userID uuid.UUID, workshop string) (*types.WorkshopStatus, error)
	SetLocked(ctx context.Context, tx *gorm.DB, userID uuid.UUID, workshop string, locked bool) error
	FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) (int64, error)
}

type statusRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStatusRepo(db *gorm.DB, baseLog *logger.Logger) StatusRepo {
	repoLog := baseLog.With("repo", "WorkshopStatusRepo")
	return &statusRepo{db: db, log: repoLog}
}

func (r *statusRepo) GetByUserWorkshop(ctx context.Context, tx *gorm.DB, userID uuid.UUID, workshop string) (*types.WorkshopStatus, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.WorkshopStatus
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND workshop = ?", userID, workshop).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *statusRepo) SetLocked(ctx context.Context, tx *gorm.DB, userID uuid.UUID, workshop string, locked bool) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	row := &types.WorkshopStatus{
		ID:       uuid.New(),
		UserID:   userID,
		Workshop: workshop,
		Locked:   locked,
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "workshop"}},
			DoUpdates: clause.AssignmentColumns([]string{"locked", "updated_at"}),
		}).
		Create(row).Error
}

func (r *statusRepo) FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(userIDs) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Delete(&types.WorkshopStatus{})
	return res.RowsAffected, res.Error
}
