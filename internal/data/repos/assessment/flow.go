package assessment

import (
	"context"

	"github.com/google/uuid"
	types "github.com/starpathlabs/constellation-backend/internal/domain"
	"github.com/starpathlabs/constellation-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FlowAttributesRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.FlowAttributes, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.FlowAttributes) (*types.FlowAttributes, error)
	FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) (int64, error)
}

type flowAttributesRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFlowAttributesRepo(db *gorm.DB, baseLog *logger.Logger) FlowAttributesRepo {
	repoLog := baseLog.With("repo", "FlowAttributesRepo")
	return &flowAttributesRepo{db: db, log: repoLog}
}

func (r *flowAttributesRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.FlowAttributes, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.FlowAttributes
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *flowAttributesRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.FlowAttributes) (*types.FlowAttributes, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"attributes", "flow_score", "updated_at",
			}),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *flowAttributesRepo) FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(userIDs) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Delete(&types.FlowAttributes{})
	return res.RowsAffected, res.Error
}
