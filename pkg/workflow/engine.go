// Package workflow contains the execution engine: it loads a stored graph,
// walks it depth-first, dispatches each node to its registered executor and
// persists an auditable execution record.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pepperonas/taskflow-platform/pkg/events"
	"github.com/pepperonas/taskflow-platform/pkg/eventbus"
	"github.com/pepperonas/taskflow-platform/pkg/models"
	"github.com/pepperonas/taskflow-platform/pkg/otelhelper"
	"github.com/pepperonas/taskflow-platform/pkg/protocol"
	"github.com/pepperonas/taskflow-platform/pkg/registry"
)

// ErrNoNodes is raised when a workflow parses to an empty graph. It fails the
// run but, like every walk error, still leaves a terminal FAILED record.
var ErrNoNodes = errors.New("Workflow has no nodes")

// Engine runs workflows. One Execute call performs one synchronous,
// single-threaded graph walk; concurrent calls share no mutable state beyond
// the read-only registry.
type Engine struct {
	workflows  protocol.WorkflowStore
	executions protocol.ExecutionStore
	registry   *registry.Registry
	publisher  eventbus.EventPublisher
	tracer     trace.Tracer
	logger     *slog.Logger
}

// NewEngine wires the engine. publisher and tracer may be nil, which disables
// event emission and tracing respectively.
func NewEngine(
	logger *slog.Logger,
	workflows protocol.WorkflowStore,
	executions protocol.ExecutionStore,
	reg *registry.Registry,
	publisher eventbus.EventPublisher,
	tracer trace.Tracer,
) *Engine {
	return &Engine{
		workflows:  workflows,
		executions: executions,
		registry:   reg,
		publisher:  publisher,
		tracer:     tracer,
		logger:     logger,
	}
}

// Execute runs one workflow against triggerData and returns the finalized
// execution record. A non-nil error is returned only for failures that happen
// before the audit record exists (unknown workflow, store failure) or when the
// final save fails; a failing graph walk is reported through the record's
// FAILED status, not through the error return.
func (e *Engine) Execute(ctx context.Context, workflowID string, triggerData map[string]any) (*models.Execution, error) {
	logger := e.logger.With("workflow_id", workflowID)
	logger.Info("Starting workflow execution")

	if e.tracer != nil {
		var span trace.Span

		ctx, span = e.tracer.Start(ctx, "workflow.execute",
			trace.WithAttributes(attribute.String(otelhelper.WorkflowIDKey, workflowID)))
		defer span.End()
	}

	wf, err := e.workflows.WorkflowByID(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch workflow %s: %w", workflowID, err)
	}

	execution := &models.Execution{
		ID:         uuid.New().String(),
		WorkflowID: workflowID,
		Status:     models.ExecutionStatusRunning,
		ExecutedAt: time.Now().UTC(),
	}

	if err := e.executions.SaveExecution(ctx, execution); err != nil {
		return nil, fmt.Errorf("failed to create execution record: %w", err)
	}

	logger = logger.With("execution_id", execution.ID)

	if e.tracer != nil {
		trace.SpanFromContext(ctx).SetAttributes(
			attribute.String(otelhelper.ExecutionIDKey, execution.ID))
	}

	ectx := models.NewExecutionContext(triggerData)
	ectx.Log("=== Workflow Execution Started ===")
	ectx.Log("Workflow: " + wf.Name)
	ectx.Log("Execution ID: " + execution.ID)

	e.publish(ctx, execution.ID, events.ExecutionStarted{
		BaseEvent:   e.baseEvent(events.ExecutionStartedEvent),
		WorkflowID:  workflowID,
		ExecutionID: execution.ID,
		TriggerData: triggerData,
	})

	walkErr := e.run(ctx, wf, ectx, logger)

	completedAt := time.Now().UTC()
	execution.CompletedAt = &completedAt

	if walkErr != nil {
		logger.Error("Workflow execution failed", "error", walkErr)

		execution.Status = models.ExecutionStatusFailed
		execution.ErrorDetails = rootCause(walkErr).Error()
		ectx.Log("=== Workflow Execution Failed ===")
		ectx.Log("Error: " + walkErr.Error())
	} else {
		execution.Status = models.ExecutionStatusCompleted
		ectx.Log("=== Workflow Execution Completed Successfully ===")
	}

	execution.ExecutionLog = ectx.ExecutionLog()

	if err := e.executions.SaveExecution(ctx, execution); err != nil {
		return execution, fmt.Errorf("failed to finalize execution record: %w", err)
	}

	if walkErr != nil {
		e.publish(ctx, execution.ID, events.ExecutionFailed{
			BaseEvent:   e.baseEvent(events.ExecutionFailedEvent),
			WorkflowID:  workflowID,
			ExecutionID: execution.ID,
			Error:       execution.ErrorDetails,
		})
	} else {
		e.publish(ctx, execution.ID, events.ExecutionCompleted{
			BaseEvent:   e.baseEvent(events.ExecutionCompletedEvent),
			WorkflowID:  workflowID,
			ExecutionID: execution.ID,
		})
	}

	logger.Info("Workflow execution finished", "status", execution.Status)

	return execution, nil
}

// run parses the graph and performs the walk. It is the boundary at which
// node failures stop propagating: anything it returns becomes the record's
// FAILED state.
func (e *Engine) run(ctx context.Context, wf *models.Workflow, ectx *models.ExecutionContext, logger *slog.Logger) error {
	nodes := ParseNodes(wf.NodesJSON, logger)
	edges := ParseEdges(wf.EdgesJSON, logger)

	if len(nodes) == 0 {
		return ErrNoNodes
	}

	start := nodes[0]

	for _, node := range nodes {
		if node.Type == models.NodeTypeTrigger {
			start = node

			break
		}
	}

	ectx.Log(fmt.Sprintf("Starting from node: %s (type: %s)", start.ID, start.Type))

	w := newWalker(e, nodes, edges, ectx, logger)

	return w.visit(ctx, start)
}

func (e *Engine) publish(ctx context.Context, key string, event eventbus.Event) {
	if e.publisher == nil {
		return
	}

	if err := e.publisher.Publish(ctx, key, event); err != nil {
		e.logger.Warn("Failed to publish event", "event_type", event.GetType(), "error", err)
	}
}

func (e *Engine) baseEvent(eventType events.EventType) events.BaseEvent {
	return events.BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
	}
}

// rootCause unwraps to the innermost error; its message is what lands in the
// record's error details.
func rootCause(err error) error {
	for {
		unwrapped := errors.Unwrap(err)
		if unwrapped == nil {
			return err
		}

		err = unwrapped
	}
}
