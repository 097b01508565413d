// Package registry maps node-type tags to their executor implementations.
package registry

import (
	"log/slog"

	"github.com/pepperonas/taskflow-platform/pkg/protocol"
)

// Registry resolves a node's type tag to the one executor handling it. It is
// populated once at startup and read-only afterwards, so concurrent Execute
// calls share it without locking.
type Registry struct {
	logger    *slog.Logger
	executors map[string]protocol.NodeExecutor
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:    logger,
		executors: make(map[string]protocol.NodeExecutor),
	}
}

// Register binds an executor to its node type. A second registration for the
// same tag replaces the first; that only happens in tests.
func (r *Registry) Register(executor protocol.NodeExecutor) {
	r.executors[executor.NodeType()] = executor

	if r.logger != nil {
		r.logger.Debug("Registered node executor", "node_type", executor.NodeType())
	}
}

// ExecutorFor returns the executor bound to nodeType, or false when the type
// is unknown. Unknown types are a soft condition: the engine skips the node
// with a warning.
func (r *Registry) ExecutorFor(nodeType string) (protocol.NodeExecutor, bool) {
	executor, ok := r.executors[nodeType]

	return executor, ok
}

// NodeTypes returns the registered type tags, for diagnostics endpoints.
func (r *Registry) NodeTypes() []string {
	types := make([]string, 0, len(r.executors))
	for nodeType := range r.executors {
		types = append(types, nodeType)
	}

	return types
}
