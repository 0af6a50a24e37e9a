package report

import (
	"context"

	"github.com/google/uuid"
	types "github.com/starpathlabs/constellation-backend/internal/domain"
	"github.com/starpathlabs/constellation-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type JobRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.ReportJob) (*types.ReportJob, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ReportJob, error)
	SetRunning(ctx context.Context, tx *gorm.DB, id uuid.UUID, stage string, progress int) error
	SetSucceeded(ctx context.Context, tx *gorm.DB, id uuid.UUID, personalID, professionalID *uuid.UUID) error
	SetFailed(ctx context.Context, tx *gorm.DB, id uuid.UUID, errMsg string) error
	FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) (int64, error)
}

type jobRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJobRepo(db *gorm.DB, baseLog *logger.Logger) JobRepo {
	repoLog := baseLog.With("repo", "ReportJobRepo")
	return &jobRepo{db: db, log: repoLog}
}

func (r *jobRepo) Create(ctx context.Context, tx *gorm.DB, row *types.ReportJob) (*types.ReportJob, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *jobRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ReportJob, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ReportJob
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *jobRepo) SetRunning(ctx context.Context, tx *gorm.DB, id uuid.UUID, stage string, progress int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.ReportJob{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":   types.ReportJobStatusRunning,
			"stage":    stage,
			"progress": progress,
		}).Error
}

func (r *jobRepo) SetSucceeded(ctx context.Context, tx *gorm.DB, id uuid.UUID, personalID, professionalID *uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.ReportJob{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":                 types.ReportJobStatusSucceeded,
			"stage":                  "done",
			"progress":               100,
			"personal_report_id":     personalID,
			"professional_report_id": professionalID,
		}).Error
}

func (r *jobRepo) SetFailed(ctx context.Context, tx *gorm.DB, id uuid.UUID, errMsg string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.ReportJob{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status": types.ReportJobStatusFailed,
			"error":  errMsg,
		}).Error
}

func (r *jobRepo) FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(userIDs) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Delete(&types.ReportJob{})
	return res.RowsAffected, res.Error
}
