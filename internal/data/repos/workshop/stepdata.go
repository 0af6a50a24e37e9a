package workshop

import (
	"context"
	"time"

	"github.com/google/uuid"
	types "github.com/starpathlabs/constellation-backend/internal/domain"
	"github.com/starpathlabs/constellation-backend/internal/platform/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StepDataRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *types.WorkshopStepData) (*types.WorkshopStepData, error)
	GetByUserWorkshop(ctx context.Context, tx *gorm.DB, userID uuid.UUID, workshop string) ([]*types.WorkshopStepData, error)
	GetByUserWorkshopStep(ctx context.Context, tx *gorm.DB, userID uuid.UUID, workshop, stepID string) (*types.WorkshopStepData, error)
	MarkCompleted(ctx context.Context, tx *gorm.DB, userID uuid.UUID, workshop, stepID string) error
	CompletedStepIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, workshop string) ([]string, error)
	SoftDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) (int64, error)
	FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) (int64, error)
	CountActiveByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) (int64, error)
}

type stepDataRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStepDataRepo(db *gorm.DB, baseLog *logger.Logger) StepDataRepo {
	repoLog := baseLog.With("repo", "StepDataRepo")
	return &stepDataRepo{db: db, log: repoLog}
}

func (r *stepDataRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.WorkshopStepData) (*types.WorkshopStepData, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "workshop"}, {Name: "step_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"data", "updated_at",
			}),
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *stepDataRepo) GetByUserWorkshop(ctx context.Context, tx *gorm.DB, userID uuid.UUID, workshop string) ([]*types.WorkshopStepData, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.WorkshopStepData
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND workshop = ?", userID, workshop).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *stepDataRepo) GetByUserWorkshopStep(ctx context.Context, tx *gorm.DB, userID uuid.UUID, workshop, stepID string) (*types.WorkshopStepData, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.WorkshopStepData
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND workshop = ? AND step_id = ?", userID, workshop, stepID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// MarkCompleted upserts: content and video steps never save step data, so
// the completion row may not exist yet.
func (r *stepDataRepo) MarkCompleted(ctx context.Context, tx *gorm.DB, userID uuid.UUID, workshop, stepID string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	now := time.Now().UTC()
	row := &types.WorkshopStepData{
		ID:          uuid.New(),
		UserID:      userID,
		Workshop:    workshop,
		StepID:      stepID,
		Data:        datatypes.JSON([]byte(`{}`)),
		Completed:   true,
		CompletedAt: &now,
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "workshop"}, {Name: "step_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"completed", "completed_at", "updated_at",
			}),
		}).
		Create(row).Error
}

func (r *stepDataRepo) CompletedStepIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, workshop string) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var stepIDs []string
	if err := transaction.WithContext(ctx).
		Model(&types.WorkshopStepData{}).
		Where("user_id = ? AND workshop = ? AND completed = ?", userID, workshop, true).
		Pluck("step_id", &stepIDs).Error; err != nil {
		return nil, err
	}
	return stepIDs, nil
}

func (r *stepDataRepo) SoftDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(userIDs) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Delete(&types.WorkshopStepData{})
	return res.RowsAffected, res.Error
}

func (r *stepDataRepo) FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(userIDs) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(ctx).
		Unscoped().
		Where("user_id IN ?", userIDs).
		Delete(&types.WorkshopStepData{})
	return res.RowsAffected, res.Error
}

func (r *stepDataRepo) CountActiveByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(userIDs) == 0 {
		return 0, nil
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.WorkshopStepData{}).
		Where("user_id IN ?", userIDs).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
