package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// WorkshopStepData is the per-(user, workshop, step) JSON blob holding
// step-local state: chosen images, free text, flags. It is the only table
// that soft-deletes on reset for regular users.
type WorkshopStepData struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_stepdata_user_workshop_step;not null;column:user_id" json:"user_id"`
	Workshop string    `gorm:"uniqueIndex:idx_stepdata_user_workshop_step;not null;column:workshop" json:"workshop"`
	StepID   string    `gorm:"uniqueIndex:idx_stepdata_user_workshop_step;not null;column:step_id" json:"step_id"`

	Data datatypes.JSON `gorm:"column:data" json:"data"`

	Completed   bool       `gorm:"not null;default:false;column:completed" json:"completed"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (WorkshopStepData) TableName() string { return "workshop_step_data" }

// WorkshopStatus tracks per-user workshop lifecycle: facilitators lock a
// workshop after the cohort session, which freezes reflection edits.
type WorkshopStatus struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_workshop_status_user_workshop;not null;column:user_id" json:"user_id"`
	Workshop    string     `gorm:"uniqueIndex:idx_workshop_status_user_workshop;not null;column:workshop" json:"workshop"`
	Locked      bool       `gorm:"not null;default:false;column:locked" json:"locked"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (WorkshopStatus) TableName() string { return "workshop_status" }
