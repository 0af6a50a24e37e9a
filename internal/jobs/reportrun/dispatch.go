package reportrun

import (
	"context"
	"fmt"

	temporalsdkclient "go.temporal.io/sdk/client"
)

// Start kicks off the workflow for one job. The workflow ID is derived from
// the job ID so duplicate submissions of the same job collapse.
func Start(ctx context.Context, tc temporalsdkclient.Client, taskQueue string, in Input) error {
	if tc == nil {
		return fmt.Errorf("reportrun: temporal client is not configured")
	}
	_, err := tc.ExecuteWorkflow(ctx, temporalsdkclient.StartWorkflowOptions{
		ID:        "report-job-" + in.JobID.String(),
		TaskQueue: taskQueue,
	}, WorkflowName, in)
	return err
}
