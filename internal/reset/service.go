// Package reset implements the per-user data wipe. All deletes run inside
// one transaction so a partial failure leaves nothing half-cleared; a JSON
// backup is written first as a separate, explicit step.
package reset

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/starpathlabs/constellation-backend/internal/data/repos"
	"github.com/starpathlabs/constellation-backend/internal/platform/apierr"
	"github.com/starpathlabs/constellation-backend/internal/platform/logger"
	"gorm.io/gorm"
)

// Summary is the per-table deleted-count report returned to the caller.
type Summary struct {
	BackupPath string           `json:"backup_path"`
	Deleted    map[string]int64 `json:"deleted"`
}

type Service struct {
	db          *gorm.DB
	users       repos.UserRepo
	assessments repos.AssessmentRepo
	starCards   repos.StarCardRepo
	flow        repos.FlowAttributesRepo
	stepData    repos.StepDataRepo
	reflections repos.ReflectionRepo
	status      repos.WorkshopStatusRepo
	reports     repos.ReportRepo
	reportJobs  repos.ReportJobRepo
	coach       repos.CoachRepo
	notes       repos.BetaNoteRepo
	log         *logger.Logger
}

func NewService(
	db *gorm.DB,
	users repos.UserRepo,
	assessments repos.AssessmentRepo,
	starCards repos.StarCardRepo,
	flow repos.FlowAttributesRepo,
	stepData repos.StepDataRepo,
	reflections repos.ReflectionRepo,
	status repos.WorkshopStatusRepo,
	reports repos.ReportRepo,
	reportJobs repos.ReportJobRepo,
	coach repos.CoachRepo,
	notes repos.BetaNoteRepo,
	baseLog *logger.Logger,
) *Service {
	return &Service{
		db:          db,
		users:       users,
		assessments: assessments,
		starCards:   starCards,
		flow:        flow,
		stepData:    stepData,
		reflections: reflections,
		status:      status,
		reports:     reports,
		reportJobs:  reportJobs,
		coach:       coach,
		notes:       notes,
		log:         baseLog.With("service", "ResetService"),
	}
}

// ResetAllUserData wipes every workshop artifact the user owns. Test users
// get a hard delete of workshop step data; regular users keep soft-deleted
// rows in that one table. Everything else hard-deletes.
func (s *Service) ResetAllUserData(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	usersFound, err := s.users.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	if len(usersFound) == 0 {
		return nil, apierr.BadRequest("invalid_identifier", errors.New("unknown user"))
	}
	user := usersFound[0]

	snap, err := CollectSnapshot(ctx, s.db, user)
	if err != nil {
		return nil, err
	}
	backupPath, err := WriteSnapshot(snap)
	if err != nil {
		return nil, err
	}
	s.log.Info("reset backup written", "user_id", userID.String(), "path", backupPath)

	ids := []uuid.UUID{userID}
	summary := &Summary{BackupPath: backupPath, Deleted: map[string]int64{}}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := s.assessments.FullDeleteByUserIDs(ctx, tx, ids)
		if err != nil {
			return err
		}
		summary.Deleted["user_assessments"] = n

		if n, err = s.starCards.FullDeleteByUserIDs(ctx, tx, ids); err != nil {
			return err
		}
		summary.Deleted["star_cards"] = n

		if n, err = s.flow.FullDeleteByUserIDs(ctx, tx, ids); err != nil {
			return err
		}
		summary.Deleted["flow_attributes"] = n

		if user.IsTestUser {
			n, err = s.stepData.FullDeleteByUserIDs(ctx, tx, ids)
		} else {
			n, err = s.stepData.SoftDeleteByUserIDs(ctx, tx, ids)
		}
		if err != nil {
			return err
		}
		summary.Deleted["workshop_step_data"] = n

		if n, err = s.reflections.FullDeleteByUserIDs(ctx, tx, ids); err != nil {
			return err
		}
		summary.Deleted["reflection_responses"] = n

		if n, err = s.status.FullDeleteByUserIDs(ctx, tx, ids); err != nil {
			return err
		}
		summary.Deleted["workshop_status"] = n

		if n, err = s.reports.FullDeleteByUserIDs(ctx, tx, ids); err != nil {
			return err
		}
		summary.Deleted["holistic_reports"] = n

		if n, err = s.reportJobs.FullDeleteByUserIDs(ctx, tx, ids); err != nil {
			return err
		}
		summary.Deleted["report_jobs"] = n

		if n, err = s.coach.FullDeleteByUserIDs(ctx, tx, ids); err != nil {
			return err
		}
		summary.Deleted["coach_conversations"] = n

		if n, err = s.notes.FullDeleteByUserIDs(ctx, tx, ids); err != nil {
			return err
		}
		summary.Deleted["beta_notes"] = n

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.verify(ctx, userID)

	s.log.Info("user data reset",
		"user_id", userID.String(),
		"test_user", user.IsTestUser,
		"deleted", summary.Deleted,
	)
	return summary, nil
}

// verify re-queries the target tables after commit and logs on mismatch.
// A leftover row is an investigation signal, not a failure.
func (s *Service) verify(ctx context.Context, userID uuid.UUID) {
	ids := []uuid.UUID{userID}

	if n, err := s.assessments.CountByUserIDs(ctx, nil, ids); err == nil && n != 0 {
		s.log.Error("reset verification: assessments remain", "user_id", userID.String(), "count", n)
	}
	if n, err := s.reflections.CountByUserIDs(ctx, nil, ids); err == nil && n != 0 {
		s.log.Error("reset verification: reflections remain", "user_id", userID.String(), "count", n)
	}
	if n, err := s.stepData.CountActiveByUserIDs(ctx, nil, ids); err == nil && n != 0 {
		s.log.Error("reset verification: active step data remains", "user_id", userID.String(), "count", n)
	}
}
