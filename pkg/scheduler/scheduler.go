// Package scheduler fires workflows whose trigger node carries a cron
// expression. The REST execute endpoint and this scheduler share the same
// engine; the scheduler only decides when to call it.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pepperonas/taskflow-platform/pkg/models"
	"github.com/pepperonas/taskflow-platform/pkg/persistence"
	"github.com/pepperonas/taskflow-platform/pkg/workflow"
)

// Runner is the engine surface the scheduler drives.
type Runner interface {
	Execute(ctx context.Context, workflowID string, triggerData map[string]any) (*models.Execution, error)
}

type Scheduler struct {
	persistence persistence.Persistence
	runner      Runner
	logger      *slog.Logger
	cron        *cron.Cron
}

func NewScheduler(logger *slog.Logger, p persistence.Persistence, runner Runner) *Scheduler {
	return &Scheduler{
		persistence: p,
		runner:      runner,
		logger:      logger,
	}
}

// Start scans every ACTIVE workflow for trigger nodes with a cron expression
// and registers one job per node. Workflows saved after Start are not picked
// up until the next restart.
func (s *Scheduler) Start(ctx context.Context) error {
	s.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	workflows, err := s.persistence.Workflows(ctx)
	if err != nil {
		return fmt.Errorf("failed to load workflows: %w", err)
	}

	jobs := 0

	for _, wf := range workflows {
		if wf.Status != models.WorkflowStatusActive {
			continue
		}

		for _, node := range workflow.ParseNodes(wf.NodesJSON, s.logger) {
			if node.Type != models.NodeTypeTrigger {
				continue
			}

			expr := node.ConfigString("cron")
			if expr == "" {
				continue
			}

			if _, err := cron.ParseStandard(expr); err != nil {
				s.logger.Warn("Skipping trigger with invalid cron expression",
					"workflow_id", wf.ID, "node_id", node.ID, "cron", expr, "error", err)

				continue
			}

			workflowID := wf.ID
			nodeID := node.ID

			_, err := s.cron.AddFunc(expr, func() {
				s.fire(workflowID, nodeID)
			})
			if err != nil {
				return fmt.Errorf("failed to add cron job for workflow %s: %w", workflowID, err)
			}

			jobs++
		}
	}

	s.logger.Info("Scheduler started", "jobs", jobs)
	s.cron.Start()

	return nil
}

func (s *Scheduler) fire(workflowID, nodeID string) {
	s.logger.Info("Cron trigger fired", "workflow_id", workflowID, "node_id", nodeID)

	triggerData := map[string]any{
		"source":    "schedule",
		"node_id":   nodeID,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	go func() {
		if _, err := s.runner.Execute(context.Background(), workflowID, triggerData); err != nil {
			s.logger.Error("Scheduled execution failed", "workflow_id", workflowID, "error", err)
		}
	}()
}

func (s *Scheduler) Stop(_ context.Context) error {
	if s.cron != nil {
		s.cron.Stop()
	}

	return nil
}
