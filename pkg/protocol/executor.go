// Package protocol defines the contracts between the execution engine, the
// pluggable node executors, and the external collaborators they delegate to.
package protocol

import (
	"context"

	"github.com/pepperonas/taskflow-platform/pkg/models"
)

// NodeExecutor executes one typed workflow node. Implementations must not
// retry internally and must log human-readable progress through the execution
// context. A returned error aborts the entire engine walk as FAILED; executors
// with a soft-failure policy (database, email) report the failure inside the
// result map instead and return a nil error.
type NodeExecutor interface {
	// Execute runs the node against the per-run context and returns its
	// result: nil, bool, number, string, []any or map[string]any.
	Execute(ctx context.Context, node *models.WorkflowNode, ectx *models.ExecutionContext) (any, error)

	// NodeType returns the node-type tag this executor handles, e.g.
	// "createTask", "condition", "delay".
	NodeType() string
}
