package workshop

import (
	"context"

	"github.com/google/uuid"
	types "github.com/starpathlabs/constellation-backend/internal/domain"
	"github.com/starpathlabs/constellation-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReflectionRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *types.ReflectionResponse) (*types.ReflectionResponse, error)
	GetByUserSet(ctx context.Context, tx *gorm.DB, userID uuid.UUID, setID string) ([]*types.ReflectionResponse, error)
	GetByUserSetItem(ctx context.Context, tx *gorm.DB, userID uuid.UUID, setID, itemID string) (*types.ReflectionResponse, error)
	MarkCompleted(ctx context.Context, tx *gorm.DB, userID uuid.UUID, setID, itemID string) error
	FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) (int64, error)
	CountByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) (int64, error)
}

type reflectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReflectionRepo(db *gorm.DB, baseLog *logger.Logger) ReflectionRepo {
	repoLog := baseLog.With("repo", "ReflectionRepo")
	return &reflectionRepo{db: db, log: repoLog}
}

func (r *reflectionRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ReflectionResponse) (*types.ReflectionResponse, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	// Completion is never unset by a save; only MarkCompleted flips it.
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "set_id"}, {Name: "item_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"response", "updated_at"}),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *reflectionRepo) GetByUserSet(ctx context.Context, tx *gorm.DB, userID uuid.UUID, setID string) ([]*types.ReflectionResponse, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ReflectionResponse
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND set_id = ?", userID, setID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *reflectionRepo) GetByUserSetItem(ctx context.Context, tx *gorm.DB, userID uuid.UUID, setID, itemID string) (*types.ReflectionResponse, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ReflectionResponse
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND set_id = ? AND item_id = ?", userID, setID, itemID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *reflectionRepo) MarkCompleted(ctx context.Context, tx *gorm.DB, userID uuid.UUID, setID, itemID string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.ReflectionResponse{}).
		Where("user_id = ? AND set_id = ? AND item_id = ?", userID, setID, itemID).
		Update("completed", true).Error
}

func (r *reflectionRepo) FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(userIDs) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Delete(&types.ReflectionResponse{})
	return res.RowsAffected, res.Error
}

func (r *reflectionRepo) CountByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(userIDs) == 0 {
		return 0, nil
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ReflectionResponse{}).
		Where("user_id IN ?", userIDs).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
