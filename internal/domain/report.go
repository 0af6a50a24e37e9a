package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// HolisticReport is one generated report document. Regeneration inserts a
// new row; readers take the most recent by created_at.
type HolisticReport struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;index:idx_report_user_type;not null;column:user_id" json:"user_id"`
	ReportType string         `gorm:"index:idx_report_user_type;not null;column:report_type" json:"report_type"`
	HTML       string         `gorm:"type:text;column:html_content" json:"html_content"`
	Metadata   datatypes.JSON `gorm:"column:metadata" json:"metadata"`
	CreatedAt  time.Time      `gorm:"not null;index" json:"created_at"`
}

func (HolisticReport) TableName() string { return "holistic_reports" }

const (
	ReportTypePersonal     = "personal"
	ReportTypeProfessional = "professional"
)

// ReportJob tracks one async report-generation run. The Temporal workflow
// polls it forward stage by stage; the HTTP layer reads it for status.
type ReportJob struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null;column:user_id" json:"user_id"`

	Status   string `gorm:"not null;default:queued;column:status" json:"status"`
	Stage    string `gorm:"column:stage" json:"stage"`
	Progress int    `gorm:"not null;default:0;column:progress" json:"progress"`
	Error    string `gorm:"type:text;column:error" json:"error,omitempty"`

	PersonalReportID     *uuid.UUID `gorm:"type:uuid;column:personal_report_id" json:"personal_report_id,omitempty"`
	ProfessionalReportID *uuid.UUID `gorm:"type:uuid;column:professional_report_id" json:"professional_report_id,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ReportJob) TableName() string { return "report_jobs" }

const (
	ReportJobStatusQueued    = "queued"
	ReportJobStatusRunning   = "running"
	ReportJobStatusSucceeded = "succeeded"
	ReportJobStatusFailed    = "failed"
)
