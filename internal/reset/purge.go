package reset

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/starpathlabs/constellation-backend/internal/data/repos"
	types "github.com/starpathlabs/constellation-backend/internal/domain"
	"github.com/starpathlabs/constellation-backend/internal/platform/logger"
)

// PurgeUser hard-deletes everything a user owns, the user's sessions, and
// the user row itself, in one transaction. Unlike ResetAllUserData there is
// no soft-delete path: the account is being removed, not reset. Callers are
// expected to have written a backup first.
func PurgeUser(ctx context.Context, db *gorm.DB, user *types.User, log *logger.Logger) error {
	assessments := repos.NewAssessmentRepo(db, log)
	starCards := repos.NewStarCardRepo(db, log)
	flow := repos.NewFlowAttributesRepo(db, log)
	stepData := repos.NewStepDataRepo(db, log)
	reflections := repos.NewReflectionRepo(db, log)
	status := repos.NewWorkshopStatusRepo(db, log)
	reports := repos.NewReportRepo(db, log)
	reportJobs := repos.NewReportJobRepo(db, log)
	coach := repos.NewCoachRepo(db, log)
	notes := repos.NewBetaNoteRepo(db, log)
	tokens := repos.NewUserTokenRepo(db, log)
	users := repos.NewUserRepo(db, log)

	ids := []uuid.UUID{user.ID}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := assessments.FullDeleteByUserIDs(ctx, tx, ids); err != nil {
			return err
		}
		if _, err := starCards.FullDeleteByUserIDs(ctx, tx, ids); err != nil {
			return err
		}
		if _, err := flow.FullDeleteByUserIDs(ctx, tx, ids); err != nil {
			return err
		}
		if _, err := stepData.FullDeleteByUserIDs(ctx, tx, ids); err != nil {
			return err
		}
		if _, err := reflections.FullDeleteByUserIDs(ctx, tx, ids); err != nil {
			return err
		}
		if _, err := status.FullDeleteByUserIDs(ctx, tx, ids); err != nil {
			return err
		}
		if _, err := reports.FullDeleteByUserIDs(ctx, tx, ids); err != nil {
			return err
		}
		if _, err := reportJobs.FullDeleteByUserIDs(ctx, tx, ids); err != nil {
			return err
		}
		if _, err := coach.FullDeleteByUserIDs(ctx, tx, ids); err != nil {
			return err
		}
		if _, err := notes.FullDeleteByUserIDs(ctx, tx, ids); err != nil {
			return err
		}
		if err := tokens.FullDeleteByUserIDs(ctx, tx, ids); err != nil {
			return err
		}
		return users.FullDeleteByIDs(ctx, tx, ids)
	})
}
