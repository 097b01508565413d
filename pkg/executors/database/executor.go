// Package database implements the node that runs raw SQL through the query
// executor collaborator.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pepperonas/taskflow-platform/pkg/models"
	"github.com/pepperonas/taskflow-platform/pkg/protocol"
	"github.com/pepperonas/taskflow-platform/pkg/template"
)

// Executor runs database nodes. Failures are soft: the error is reported
// inside the result map and the workflow run continues. This is intentionally
// the opposite of the code executor's hard-fail policy.
type Executor struct {
	logger *slog.Logger
	db     protocol.QueryExecutor
}

func NewExecutor(logger *slog.Logger, db protocol.QueryExecutor) *Executor {
	return &Executor{
		logger: logger,
		db:     db,
	}
}

func (e *Executor) NodeType() string {
	return "database"
}

func (e *Executor) Execute(ctx context.Context, node *models.WorkflowNode, ectx *models.ExecutionContext) (any, error) {
	ectx.Log("Executing Database node: " + node.ID)

	query := template.Resolve(node.ConfigString("query"), ectx)

	operation := node.ConfigString("operation")
	if operation == "" {
		operation = "select"
	}

	if strings.TrimSpace(query) == "" {
		ectx.Log("WARNING: No query specified")

		return map[string]any{"error": "No query specified"}, nil
	}

	if e.db == nil {
		ectx.Log("WARNING: No database collaborator configured")

		return map[string]any{"error": "No database configured"}, nil
	}

	if strings.EqualFold(operation, "select") {
		rows, err := e.db.QueryForList(ctx, query)
		if err != nil {
			return e.softFail(ectx, err), nil
		}

		ectx.Log(fmt.Sprintf("Query returned %d rows", len(rows)))

		return map[string]any{
			"rows":  rows,
			"count": len(rows),
		}, nil
	}

	affected, err := e.db.Update(ctx, query)
	if err != nil {
		return e.softFail(ectx, err), nil
	}

	ectx.Log(fmt.Sprintf("Query affected %d rows", affected))

	return map[string]any{"affectedRows": affected}, nil
}

func (e *Executor) softFail(ectx *models.ExecutionContext, err error) map[string]any {
	e.logger.Error("Database query failed", "error", err)
	ectx.Log("ERROR: Database query failed - " + err.Error())

	return map[string]any{"error": err.Error()}
}
