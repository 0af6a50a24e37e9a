package assessment

import (
	"context"

	"github.com/google/uuid"
	types "github.com/starpathlabs/constellation-backend/internal/domain"
	"github.com/starpathlabs/constellation-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type AssessmentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.UserAssessment) ([]*types.UserAssessment, error)
	LatestByUserAndType(ctx context.Context, tx *gorm.DB, userID uuid.UUID, assessmentType string) (*types.UserAssessment, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.UserAssessment, error)
	FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) (int64, error)
	CountByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) (int64, error)
}

type assessmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	repoLog := baseLog.With("repo", "AssessmentRepo")
	return &assessmentRepo{db: db, log: repoLog}
}

func (r *assessmentRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.UserAssessment) ([]*types.UserAssessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.UserAssessment{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *assessmentRepo) LatestByUserAndType(ctx context.Context, tx *gorm.DB, userID uuid.UUID, assessmentType string) (*types.UserAssessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.UserAssessment
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND assessment_type = ?", userID, assessmentType).
		Order("created_at DESC").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *assessmentRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.UserAssessment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.UserAssessment
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *assessmentRepo) FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(userIDs) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Delete(&types.UserAssessment{})
	return res.RowsAffected, res.Error
}

func (r *assessmentRepo) CountByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(userIDs) == 0 {
		return 0, nil
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.UserAssessment{}).
		Where("user_id IN ?", userIDs).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
