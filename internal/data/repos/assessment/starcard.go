package assessment

import (
	"context"

	"github.com/google/uuid"
	types "github.com/starpathlabs/constellation-backend/internal/domain"
	"github.com/starpathlabs/constellation-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StarCardRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.StarCard, error)
	Upsert(ctx context.Context, tx *gorm.DB, card *types.StarCard) (*types.StarCard, error)
	UpdateImage(ctx context.Context, tx *gorm.DB, userID uuid.UUID, bucketKey, imageURL string) error
	FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) (int64, error)
}

type starCardRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStarCardRepo(db *gorm.DB, baseLog *logger.Logger) StarCardRepo {
	repoLog := baseLog.With("repo", "StarCardRepo")
	return &starCardRepo{db: db, log: repoLog}
}

func (r *starCardRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.StarCard, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.StarCard
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

func (r *starCardRepo) Upsert(ctx context.Context, tx *gorm.DB, card *types.StarCard) (*types.StarCard, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"thinking", "acting", "feeling", "planning", "state", "updated_at",
			}),
		}).
		Create(card).Error; err != nil {
		return nil, err
	}
	return card, nil
}

func (r *starCardRepo) UpdateImage(ctx context.Context, tx *gorm.DB, userID uuid.UUID, bucketKey, imageURL string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.StarCard{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"image_bucket_key": bucketKey,
			"image_url":        imageURL,
		}).Error
}

func (r *starCardRepo) FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(userIDs) == 0 {
		return 0, nil
	}
	res := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Delete(&types.StarCard{})
	return res.RowsAffected, res.Error
}
