// Package code implements the sandboxed script node. It is the most
// security-sensitive executor: user-supplied JavaScript is statically
// validated against a denylist, then run in an isolated interpreter with no
// ambient capabilities under a hard wall-clock timeout.
//
// Unlike the database and email executors, every failure here (validation,
// timeout, runtime error) is fatal and aborts the whole workflow run. The
// asymmetry is inherited from the original system and kept on purpose.
package code

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pepperonas/taskflow-platform/pkg/models"
)

// DefaultTimeout is the hard wall-clock bound on one script run.
const DefaultTimeout = 5000 * time.Millisecond

type Executor struct {
	logger  *slog.Logger
	timeout time.Duration
}

func NewExecutor(logger *slog.Logger) *Executor {
	return &Executor{
		logger:  logger,
		timeout: DefaultTimeout,
	}
}

// NewExecutorWithTimeout exists for tests that need a short bound; production
// wiring always uses NewExecutor.
func NewExecutorWithTimeout(logger *slog.Logger, timeout time.Duration) *Executor {
	return &Executor{
		logger:  logger,
		timeout: timeout,
	}
}

func (e *Executor) NodeType() string {
	return "code"
}

func (e *Executor) Execute(ctx context.Context, node *models.WorkflowNode, ectx *models.ExecutionContext) (any, error) {
	ectx.Log("Executing Code node: " + node.ID)

	source := node.ConfigString("code")
	if strings.TrimSpace(source) == "" {
		ectx.Log("Warning: No code provided")

		return nil, nil
	}

	// Static validation runs before any interpreter is created; a denylisted
	// construct rejects the script outright.
	if err := Validate(source); err != nil {
		ectx.Log("ERROR: " + err.Error())

		return nil, err
	}

	ectx.Log(fmt.Sprintf("Executing JavaScript code (timeout: %dms)", e.timeout.Milliseconds()))

	result, err := runSandboxed(ctx, source, sandboxBindings(ectx), e.timeout)
	if err != nil {
		e.logger.Error("Code execution failed", "node_id", node.ID, "error", err)
		ectx.Log("ERROR: " + err.Error())

		return nil, err
	}

	ectx.Log("Code execution successful")

	return result, nil
}

// sandboxBindings builds the read-only view the script sees: the trigger
// payload as $trigger, the full variable map as $vars, and each node result
// as $<nodeId> (the "_result" suffix stripped). Values are deep-copied so the
// script cannot mutate engine state.
func sandboxBindings(ectx *models.ExecutionContext) map[string]any {
	bindings := map[string]any{
		"$trigger": deepCopy(ectx.TriggerData),
		"$vars":    deepCopy(ectx.Variables),
	}

	for name, value := range ectx.Variables {
		if nodeID, ok := strings.CutSuffix(name, "_result"); ok && nodeID != "" {
			bindings["$"+nodeID] = deepCopy(value)
		}
	}

	return bindings
}

func deepCopy(value any) any {
	switch v := value.(type) {
	case map[string]any:
		copied := make(map[string]any, len(v))
		for key, item := range v {
			copied[key] = deepCopy(item)
		}

		return copied
	case []any:
		copied := make([]any, len(v))
		for i, item := range v {
			copied[i] = deepCopy(item)
		}

		return copied
	default:
		return v
	}
}
