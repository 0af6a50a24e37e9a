package reportrun

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/workflow"
)

func Workflow(ctx workflow.Context, in Input) error {
	if in.JobID == uuid.Nil || in.UserID == uuid.Nil {
		return fmt.Errorf("reportrun: missing job_id or user_id")
	}

	// No activity retry policy: the activity records failures on the job
	// row itself, and re-running an LLM generation blindly doubles cost.
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Minute,
		HeartbeatTimeout:    30 * time.Second,
		RetryPolicy:         nil,
	})

	var out Output
	if err := workflow.ExecuteActivity(ctx, ActivityGenerate, in).Get(ctx, &out); err != nil {
		return err
	}
	return nil
}
