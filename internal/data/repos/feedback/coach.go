package feedback

import (
	"context"

	"github.com/google/uuid"
	types "github.com/starpathlabs/constellation-backend/internal/domain"
	"github.com/starpathlabs/constellation-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type CoachRepo interface {
	CreateConversation(ctx context.Context, tx *gorm.DB, row *types.CoachConversation) (*types.CoachConversation, error)
	GetConversation(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CoachConversation, error)
	GetConversationsByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.CoachConversation, error)
	AppendMessage(ctx context.Context, tx *gorm.DB, row *types.CoachMessage) (*types.CoachMessage, error)
	GetMessages(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID) ([]*types.CoachMessage, error)
	FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) (int64, error)
}

type coachRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCoachRepo(db *gorm.DB, baseLog *logger.Logger) CoachRepo {
	repoLog := baseLog.With("repo", "CoachRepo")
	return &coachRepo{db: db, log: repoLog}
}

func (r *coachRepo) CreateConversation(ctx context.Context, tx *gorm.DB, row *types.CoachConversation) (*types.CoachConversation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *coachRepo) GetConversation(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.CoachConversation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CoachConversation
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

func (r *coachRepo) GetConversationsByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.CoachConversation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CoachConversation
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *coachRepo) AppendMessage(ctx context.Context, tx *gorm.DB, row *types.CoachMessage) (*types.CoachMessage, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *coachRepo) GetMessages(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID) ([]*types.CoachMessage, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CoachMessage
	if err := transaction.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *coachRepo) FullDeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(userIDs) == 0 {
		return 0, nil
	}

	// Messages hang off conversations, so they go first.
	if err := transaction.WithContext(ctx).
		Where("conversation_id IN (?)",
			transaction.Model(&types.CoachConversation{}).
				Select("id").
				Where("user_id IN ?", userIDs),
		).
		Delete(&types.CoachMessage{}).Error; err != nil {
		return 0, err
	}
	res := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Delete(&types.CoachConversation{})
	return res.RowsAffected, res.Error
}
