// Package delay implements the node that pauses the walk for a configured
// number of milliseconds.
package delay

import (
	"context"
	"fmt"
	"time"

	"github.com/pepperonas/taskflow-platform/pkg/models"
)

const defaultDelayMs = 1000

// Executor blocks the calling execution goroutine for the configured
// duration. The sleep is real and sequential on purpose: the engine walk is
// single-threaded. Context cancellation cuts the sleep short and is logged,
// not treated as a failure.
type Executor struct{}

func NewExecutor() *Executor {
	return &Executor{}
}

func (e *Executor) NodeType() string {
	return "delay"
}

func (e *Executor) Execute(ctx context.Context, node *models.WorkflowNode, ectx *models.ExecutionContext) (any, error) {
	ectx.Log("Executing Delay node: " + node.ID)

	delayMs := defaultDelayMs

	if v, ok := node.ConfigValue("delayMs"); ok {
		switch value := v.(type) {
		case float64:
			delayMs = int(value)
		case int:
			delayMs = value
		}
	}

	ectx.Log(fmt.Sprintf("Delaying execution for %dms", delayMs))

	timer := time.NewTimer(time.Duration(delayMs) * time.Millisecond)
	defer timer.Stop()

	select {
	case <-timer.C:
		ectx.Log("Delay completed")
	case <-ctx.Done():
		ectx.Log("Delay interrupted: " + ctx.Err().Error())
	}

	return nil, nil
}
