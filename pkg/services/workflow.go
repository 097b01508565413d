package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/pepperonas/taskflow-platform/pkg/models"
	"github.com/pepperonas/taskflow-platform/pkg/persistence"
)

// ErrInvalidGraph is returned when a workflow's nodes or edges JSON does not
// match the graph schema.
var ErrInvalidGraph = errors.New("invalid workflow graph")

const nodesSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "type"],
		"properties": {
			"id": {"type": "string", "minLength": 1},
			"type": {"type": "string", "minLength": 1},
			"data": {"type": "object"},
			"position": {
				"type": "object",
				"properties": {
					"x": {"type": "number"},
					"y": {"type": "number"}
				}
			}
		}
	}
}`

const edgesSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"required": ["source", "target"],
		"properties": {
			"id": {"type": "string"},
			"source": {"type": "string", "minLength": 1},
			"target": {"type": "string", "minLength": 1},
			"label": {"type": "string"}
		}
	}
}`

// Workflow manages workflow definitions. Graph validation happens here, at
// save time; the execution engine parses leniently and never rejects stored
// definitions.
type Workflow struct {
	persistence persistence.Persistence
	nodesSchema *gojsonschema.Schema
	edgesSchema *gojsonschema.Schema
}

// NewWorkflow creates a workflow service.
func NewWorkflow(p persistence.Persistence) (*Workflow, error) {
	nodes, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(nodesSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile nodes schema: %w", err)
	}

	edges, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(edgesSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile edges schema: %w", err)
	}

	return &Workflow{persistence: p, nodesSchema: nodes, edgesSchema: edges}, nil
}

// HealthCheck checks the health of the persistence layer.
func (s *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	if s.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := s.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// List returns all workflows.
func (s *Workflow) List(ctx context.Context) ([]*models.Workflow, error) {
	return s.persistence.Workflows(ctx)
}

// FetchByID returns a workflow by ID.
func (s *Workflow) FetchByID(ctx context.Context, id string) (*models.Workflow, error) {
	return s.persistence.WorkflowByID(ctx, id)
}

// Save validates the workflow graph and persists the workflow.
func (s *Workflow) Save(ctx context.Context, workflow *models.Workflow) (*models.Workflow, error) {
	if err := s.validateGraph(workflow); err != nil {
		return nil, err
	}

	if workflow.Status == "" {
		workflow.Status = models.WorkflowStatusDraft
	}

	if err := s.persistence.SaveWorkflow(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	return workflow, nil
}

// Delete removes a workflow.
func (s *Workflow) Delete(ctx context.Context, id string) error {
	return s.persistence.DeleteWorkflow(ctx, id)
}

func (s *Workflow) validateGraph(workflow *models.Workflow) error {
	if err := validateAgainst(s.nodesSchema, workflow.NodesJSON, "nodes"); err != nil {
		return err
	}

	return validateAgainst(s.edgesSchema, workflow.EdgesJSON, "edges")
}

func validateAgainst(schema *gojsonschema.Schema, document, field string) error {
	if document == "" {
		return nil
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(document))
	if err != nil {
		return fmt.Errorf("%w: %s is not valid JSON: %w", ErrInvalidGraph, field, err)
	}

	if result.Valid() {
		return nil
	}

	details := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}

	return fmt.Errorf("%w: %s: %s", ErrInvalidGraph, field, strings.Join(details, "; "))
}
