package db

import (
	types "github.com/starpathlabs/constellation-backend/internal/domain"
	"gorm.io/gorm"
)

func (s *PostgresService) AutoMigrateAll() error {
	return AutoMigrateAll(s.db)
}

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.User{},
		&types.UserToken{},

		&types.WorkshopStepData{},
		&types.WorkshopStatus{},
		&types.ReflectionResponse{},

		&types.UserAssessment{},
		&types.StarCard{},
		&types.FlowAttributes{},

		&types.HolisticReport{},
		&types.ReportJob{},

		&types.CoachConversation{},
		&types.CoachMessage{},
		&types.BetaNote{},
	)
}
