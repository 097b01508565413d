package workflow

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/pepperonas/taskflow-platform/pkg/models"
)

// ParseNodes decodes the stored nodes document. Malformed or empty input
// yields an empty list and a warning instead of an error: the engine prefers
// running against an empty graph over refusing a stored workflow outright.
// The empty-graph check in the engine is what ultimately surfaces the problem.
func ParseNodes(nodesJSON string, logger *slog.Logger) []*models.WorkflowNode {
	if strings.TrimSpace(nodesJSON) == "" {
		return []*models.WorkflowNode{}
	}

	var nodes []*models.WorkflowNode

	if err := json.Unmarshal([]byte(nodesJSON), &nodes); err != nil {
		logger.Warn("Failed to parse workflow nodes, treating graph as empty", "error", err)

		return []*models.WorkflowNode{}
	}

	return nodes
}

// ParseEdges decodes the stored edges document with the same leniency as
// ParseNodes.
func ParseEdges(edgesJSON string, logger *slog.Logger) []*models.WorkflowEdge {
	if strings.TrimSpace(edgesJSON) == "" {
		return []*models.WorkflowEdge{}
	}

	var edges []*models.WorkflowEdge

	if err := json.Unmarshal([]byte(edgesJSON), &edges); err != nil {
		logger.Warn("Failed to parse workflow edges, treating graph as empty", "error", err)

		return []*models.WorkflowEdge{}
	}

	return edges
}
