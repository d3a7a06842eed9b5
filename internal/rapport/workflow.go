package rapport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	executions "cloud.google.com/go/workflows/executions/apiv1"
	"cloud.google.com/go/workflows/executions/apiv1/executionspb"
)

// WorkflowTrigger starts the rapport-finalize workflow, which calls the
// finalizer function with the lot ID.
type WorkflowTrigger struct {
	client           *executions.Client
	projectID        string
	workflowLocation string
	workflowID       string
}

// NewWorkflowTrigger wraps an existing Workflows Executions client.
func NewWorkflowTrigger(client *executions.Client, projectID, location, workflowID string) *WorkflowTrigger {
	return &WorkflowTrigger{
		client:           client,
		projectID:        projectID,
		workflowLocation: location,
		workflowID:       workflowID,
	}
}

func (t *WorkflowTrigger) TriggerFinalize(ctx context.Context, lotID string) error {
	payload, err := json.Marshal(map[string]interface{}{
		"lotId": lotID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal workflow payload: %w", err)
	}

	req := &executionspb.CreateExecutionRequest{
		Parent: fmt.Sprintf("projects/%s/locations/%s/workflows/%s",
			t.projectID, t.workflowLocation, t.workflowID),
		Execution: &executionspb.Execution{
			Argument: string(payload),
		},
	}
	exec, err := t.client.CreateExecution(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to trigger finalize workflow execution: %w", err)
	}
	slog.Info("Finalize workflow triggered.", "lotId", lotID, "execution", exec.GetName())
	return nil
}
