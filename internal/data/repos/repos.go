package repos

import (
	"github.com/starpathlabs/constellation-backend/internal/data/repos/assessment"
	"github.com/starpathlabs/constellation-backend/internal/data/repos/feedback"
	"github.com/starpathlabs/constellation-backend/internal/data/repos/report"
	"github.com/starpathlabs/constellation-backend/internal/data/repos/user"
	"github.com/starpathlabs/constellation-backend/internal/data/repos/workshop"
	"github.com/starpathlabs/constellation-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo
type UserTokenRepo = user.UserTokenRepo

type StepDataRepo = workshop.StepDataRepo
type ReflectionRepo = workshop.ReflectionRepo
type WorkshopStatusRepo = workshop.StatusRepo

type AssessmentRepo = assessment.AssessmentRepo
type StarCardRepo = assessment.StarCardRepo
type FlowAttributesRepo = assessment.FlowAttributesRepo

type ReportRepo = report.ReportRepo
type ReportJobRepo = report.JobRepo

type CoachRepo = feedback.CoachRepo
type BetaNoteRepo = feedback.NoteRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return user.NewUserTokenRepo(db, baseLog)
}

func NewStepDataRepo(db *gorm.DB, baseLog *logger.Logger) StepDataRepo {
	return workshop.NewStepDataRepo(db, baseLog)
}
func NewReflectionRepo(db *gorm.DB, baseLog *logger.Logger) ReflectionRepo {
	return workshop.NewReflectionRepo(db, baseLog)
}
func NewWorkshopStatusRepo(db *gorm.DB, baseLog *logger.Logger) WorkshopStatusRepo {
	return workshop.NewStatusRepo(db, baseLog)
}

func NewAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) AssessmentRepo {
	return assessment.NewAssessmentRepo(db, baseLog)
}
func NewStarCardRepo(db *gorm.DB, baseLog *logger.Logger) StarCardRepo {
	return assessment.NewStarCardRepo(db, baseLog)
}
func NewFlowAttributesRepo(db *gorm.DB, baseLog *logger.Logger) FlowAttributesRepo {
	return assessment.NewFlowAttributesRepo(db, baseLog)
}

func NewReportRepo(db *gorm.DB, baseLog *logger.Logger) ReportRepo {
	return report.NewReportRepo(db, baseLog)
}
func NewReportJobRepo(db *gorm.DB, baseLog *logger.Logger) ReportJobRepo {
	return report.NewJobRepo(db, baseLog)
}

func NewCoachRepo(db *gorm.DB, baseLog *logger.Logger) CoachRepo {
	return feedback.NewCoachRepo(db, baseLog)
}
func NewBetaNoteRepo(db *gorm.DB, baseLog *logger.Logger) BetaNoteRepo {
	return feedback.NewNoteRepo(db, baseLog)
}
