package models

import "strings"

// ExecutionContext is the per-run mutable state: a variable store, the
// caller-supplied trigger payload, and the append-only audit log. It is
// created fresh for every Execute call and never shared across runs, so no
// locking is needed.
type ExecutionContext struct {
	Variables   map[string]any
	TriggerData map[string]any

	logLines []string
}

func NewExecutionContext(triggerData map[string]any) *ExecutionContext {
	if triggerData == nil {
		triggerData = make(map[string]any)
	}

	return &ExecutionContext{
		Variables:   make(map[string]any),
		TriggerData: triggerData,
	}
}

func (c *ExecutionContext) SetVariable(key string, value any) {
	c.Variables[key] = value
}

func (c *ExecutionContext) Variable(key string) (any, bool) {
	v, ok := c.Variables[key]

	return v, ok
}

// Log appends one line to the audit trail. Insertion order is significant and
// the trail is flushed into the execution record exactly once, at the end of
// the run.
func (c *ExecutionContext) Log(message string) {
	c.logLines = append(c.logLines, message)
}

// LogLines returns the audit trail accumulated so far.
func (c *ExecutionContext) LogLines() []string {
	return c.logLines
}

// ExecutionLog renders the audit trail as a newline-joined string with a
// trailing newline, matching the persisted wire shape.
func (c *ExecutionContext) ExecutionLog() string {
	if len(c.logLines) == 0 {
		return ""
	}

	return strings.Join(c.logLines, "\n") + "\n"
}
