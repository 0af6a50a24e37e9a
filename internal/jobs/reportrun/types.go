// Package reportrun is the Temporal workflow that drives one holistic
// report generation job. The job row in report_jobs is the source of truth
// for status; the workflow only moves it forward.
package reportrun

import "github.com/google/uuid"

const (
	WorkflowName     = "holistic_report_run"
	ActivityGenerate = "holistic_report_generate"
)

type Input struct {
	JobID  uuid.UUID `json:"job_id"`
	UserID uuid.UUID `json:"user_id"`
}

type Output struct {
	PersonalReportID     uuid.UUID `json:"personal_report_id"`
	ProfessionalReportID uuid.UUID `json:"professional_report_id"`
}
