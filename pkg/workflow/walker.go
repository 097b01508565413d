package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pepperonas/taskflow-platform/pkg/models"
	"github.com/pepperonas/taskflow-platform/pkg/otelhelper"
)

// walker holds the per-run traversal state: an index over the parsed graph
// and the visited-set that guards against cycles. Nodes and edges are kept in
// a flat arena with an id index; the walk never builds pointer-linked node
// structures.
type walker struct {
	engine  *Engine
	byID    map[string]*models.WorkflowNode
	edges   []*models.WorkflowEdge
	ectx    *models.ExecutionContext
	visited map[string]bool
	logger  *slog.Logger
}

func newWalker(engine *Engine, nodes []*models.WorkflowNode, edges []*models.WorkflowEdge, ectx *models.ExecutionContext, logger *slog.Logger) *walker {
	byID := make(map[string]*models.WorkflowNode, len(nodes))
	for _, node := range nodes {
		byID[node.ID] = node
	}

	return &walker{
		engine:  engine,
		byID:    byID,
		edges:   edges,
		ectx:    ectx,
		visited: make(map[string]bool),
		logger:  logger,
	}
}

// visit executes node and recurses into its successors, depth-first, in
// edge-list order. A node already in the visited-set terminates that path
// normally: cyclic graphs finish instead of looping, and no node runs twice.
func (w *walker) visit(ctx context.Context, node *models.WorkflowNode) error {
	if w.visited[node.ID] {
		w.ectx.Log("Node already visited, skipping: " + node.ID)

		return nil
	}

	w.visited[node.ID] = true

	if node.Type == models.NodeTypeTrigger {
		w.ectx.Log("Skipping trigger node: " + node.ID)
	} else {
		result, err := w.execute(ctx, node)
		if err != nil {
			return fmt.Errorf("node execution failed: %s: %w", node.ID, err)
		}

		// The only inter-node channel besides trigger data: the result is
		// visible to every node executed after this one.
		w.ectx.SetVariable(node.ID+"_result", result)
	}

	outgoing := make([]*models.WorkflowEdge, 0, 2)

	for _, edge := range w.edges {
		if edge.Source == node.ID {
			outgoing = append(outgoing, edge)
		}
	}

	if len(outgoing) == 0 {
		w.ectx.Log("No outgoing edges from node: " + node.ID + " (end node)")

		return nil
	}

	for _, edge := range outgoing {
		next, ok := w.byID[edge.Target]
		if !ok {
			w.ectx.Log("Warning: Next node not found for edge target: " + edge.Target)

			continue
		}

		if node.Type == models.NodeTypeCondition {
			// Only a boolean true result follows the "true" edge and only a
			// boolean false follows the "false" edge; every other label (or a
			// non-boolean result) leaves the branch untaken.
			conditionResult, _ := w.ectx.Variable(node.ID + "_result")
			value, isBool := conditionResult.(bool)

			switch {
			case edge.Label == "true" && isBool && value:
				w.ectx.Log("Following TRUE branch to node: " + next.ID)

				if err := w.visit(ctx, next); err != nil {
					return err
				}
			case edge.Label == "false" && isBool && !value:
				w.ectx.Log("Following FALSE branch to node: " + next.ID)

				if err := w.visit(ctx, next); err != nil {
					return err
				}
			}

			continue
		}

		w.ectx.Log("Following edge to node: " + next.ID)

		if err := w.visit(ctx, next); err != nil {
			return err
		}
	}

	return nil
}

// execute dispatches node to its registered executor. Unknown node types are
// skipped with a warning and a nil result; executor errors abort the walk.
func (w *walker) execute(ctx context.Context, node *models.WorkflowNode) (any, error) {
	w.logger.Info("Executing node", "node_id", node.ID, "node_type", node.Type)

	executor, ok := w.engine.registry.ExecutorFor(node.Type)
	if !ok {
		w.ectx.Log("Warning: No executor found for node type: " + node.Type)

		return nil, nil
	}

	if w.engine.tracer != nil {
		var span trace.Span

		ctx, span = w.engine.tracer.Start(ctx, "workflow.node",
			trace.WithAttributes(
				attribute.String(otelhelper.NodeIDKey, node.ID),
				attribute.String(otelhelper.NodeTypeKey, node.Type),
			))
		defer span.End()
	}

	result, err := executor.Execute(ctx, node, w.ectx)
	if err != nil {
		w.logger.Error("Node execution failed", "node_id", node.ID, "error", err)
		w.ectx.Log("Error executing node " + node.ID + ": " + err.Error())

		return nil, err
	}

	return result, nil
}
