package reportrun

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"

	"github.com/starpathlabs/constellation-backend/internal/data/repos"
	types "github.com/starpathlabs/constellation-backend/internal/domain"
	"github.com/starpathlabs/constellation-backend/internal/platform/logger"
	"github.com/starpathlabs/constellation-backend/internal/realtime"
	"github.com/starpathlabs/constellation-backend/internal/realtime/bus"
	"github.com/starpathlabs/constellation-backend/internal/reports"
)

type Activities struct {
	Log     *logger.Logger
	Jobs    repos.ReportJobRepo
	Reports *reports.Service
	Bus     bus.Bus
}

// Generate runs the full pipeline for one job. Job status transitions are
// written to the report_jobs row so the HTTP layer can poll it, and a
// report_ready event goes out on the bus either way.
func (a *Activities) Generate(ctx context.Context, in Input) (Output, error) {
	var out Output
	if a == nil || a.Jobs == nil || a.Reports == nil {
		return out, fmt.Errorf("reportrun: activity not configured")
	}
	if in.JobID == uuid.Nil || in.UserID == uuid.Nil {
		return out, fmt.Errorf("reportrun: missing job_id or user_id")
	}

	job, err := a.Jobs.GetByID(ctx, nil, in.JobID)
	if err != nil {
		return out, err
	}
	if job == nil {
		return out, fmt.Errorf("reportrun: job not found")
	}
	// A replayed activity may land on an already-terminal job.
	if job.Status == types.ReportJobStatusSucceeded || job.Status == types.ReportJobStatusFailed {
		if job.PersonalReportID != nil {
			out.PersonalReportID = *job.PersonalReportID
		}
		if job.ProfessionalReportID != nil {
			out.ProfessionalReportID = *job.ProfessionalReportID
		}
		return out, nil
	}

	stopHB := startHeartbeat(ctx)
	defer stopHB()

	if err := a.Jobs.SetRunning(ctx, nil, in.JobID, "collecting_inputs", 10); err != nil {
		return out, err
	}

	result, genErr := a.generateStaged(ctx, in)
	if genErr != nil {
		if err := a.Jobs.SetFailed(ctx, nil, in.JobID, genErr.Error()); err != nil && a.Log != nil {
			a.Log.Error("report job mark-failed failed", "job_id", in.JobID.String(), "error", err.Error())
		}
		a.publish(ctx, in, "failed")
		// The error lives on the job row; failing the activity would only
		// trigger workflow-level retries we do not want.
		return out, nil
	}

	if err := a.Jobs.SetSucceeded(ctx, nil, in.JobID, &result.PersonalID, &result.ProfessionalID); err != nil {
		return out, err
	}
	a.publish(ctx, in, "succeeded")

	out.PersonalReportID = result.PersonalID
	out.ProfessionalReportID = result.ProfessionalID
	return out, nil
}

func (a *Activities) generateStaged(ctx context.Context, in Input) (*reports.Result, error) {
	_ = a.Jobs.SetRunning(ctx, nil, in.JobID, "generating_reports", 40)
	result, err := a.Reports.Generate(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	_ = a.Jobs.SetRunning(ctx, nil, in.JobID, "finalizing", 90)
	return result, nil
}

func (a *Activities) publish(ctx context.Context, in Input, status string) {
	if a.Bus == nil {
		return
	}
	err := a.Bus.Publish(ctx, realtime.Message{
		Channel: in.UserID.String(),
		Event:   realtime.EventReportReady,
		Data: map[string]any{
			"job_id": in.JobID.String(),
			"status": status,
		},
	})
	if err != nil && a.Log != nil {
		a.Log.Warn("report_ready publish failed", "job_id", in.JobID.String(), "error", err.Error())
	}
}

func startHeartbeat(ctx context.Context) func() {
	// Inline generation reuses this code outside a Temporal worker, where
	// there is no activity environment to heartbeat against.
	if !activity.IsActivity(ctx) {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				activity.RecordHeartbeat(ctx)
			}
		}
	}()
	return func() { close(done) }
}
