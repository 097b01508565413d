package workflow

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pepperonas/taskflow-platform/pkg/executors/condition"
	"github.com/pepperonas/taskflow-platform/pkg/models"
	"github.com/pepperonas/taskflow-platform/pkg/registry"
	"github.com/pepperonas/taskflow-platform/pkg/testutil"
)

type stubExecutor struct {
	nodeType string
	result   any
	err      error
	calls    []string
}

func (s *stubExecutor) Execute(_ context.Context, node *models.WorkflowNode, _ *models.ExecutionContext) (any, error) {
	s.calls = append(s.calls, node.ID)

	return s.result, s.err
}

func (s *stubExecutor) NodeType() string {
	return s.nodeType
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func newTestEngine(t *testing.T, wf *models.Workflow, executors ...*stubExecutor) (*Engine, *testutil.ExecutionStore) {
	t.Helper()

	logger := testLogger()
	reg := registry.NewRegistry(logger)

	for _, executor := range executors {
		reg.Register(executor)
	}

	executions := testutil.NewExecutionStore()
	engine := NewEngine(logger, testutil.NewWorkflowStore(wf), executions, reg, nil, nil)

	return engine, executions
}

func TestEngine_Execute_Success(t *testing.T) {
	action := &stubExecutor{nodeType: "stub", result: map[string]any{"ok": true}}

	wf := testutil.CreateTestWorkflow("Order Flow",
		[]*models.WorkflowNode{
			testutil.CreateTestNode(testutil.WithID("start"), testutil.WithType("trigger")),
			testutil.CreateTestNode(testutil.WithID("work"), testutil.WithType("stub")),
		},
		[]*models.WorkflowEdge{testutil.Edge("start", "work", "")},
	)

	engine, executions := newTestEngine(t, wf, action)

	execution, err := engine.Execute(context.Background(), wf.ID, map[string]any{"orderId": "42"})
	require.NoError(t, err)

	assert.Equal(t, models.ExecutionStatusCompleted, execution.Status)
	assert.Empty(t, execution.ErrorDetails)
	assert.NotNil(t, execution.CompletedAt)
	assert.Equal(t, []string{"work"}, action.calls)

	assert.Contains(t, execution.ExecutionLog, "=== Workflow Execution Started ===")
	assert.Contains(t, execution.ExecutionLog, "Workflow: Order Flow")
	assert.Contains(t, execution.ExecutionLog, "Execution ID: "+execution.ID)
	assert.Contains(t, execution.ExecutionLog, "Starting from node: start (type: trigger)")
	assert.Contains(t, execution.ExecutionLog, "Skipping trigger node: start")
	assert.Contains(t, execution.ExecutionLog, "Following edge to node: work")
	assert.Contains(t, execution.ExecutionLog, "No outgoing edges from node: work (end node)")
	assert.Contains(t, execution.ExecutionLog, "=== Workflow Execution Completed Successfully ===")
	assert.True(t, strings.HasSuffix(execution.ExecutionLog, "\n"))

	// First save is the RUNNING record, second the finalized one.
	require.Len(t, executions.Saves, 2)
	assert.Equal(t, models.ExecutionStatusRunning, executions.Saves[0].Status)
	assert.Empty(t, executions.Saves[0].ExecutionLog)
	assert.Equal(t, models.ExecutionStatusCompleted, executions.Saves[1].Status)
}

func TestEngine_Execute_UnknownWorkflow(t *testing.T) {
	engine, executions := newTestEngine(t, testutil.CreateTestWorkflow("x", nil, nil))

	execution, err := engine.Execute(context.Background(), "missing", nil)

	require.Error(t, err)
	assert.Nil(t, execution)
	assert.Empty(t, executions.Saves)
}

func TestEngine_Execute_EmptyGraph(t *testing.T) {
	wf := testutil.CreateTestWorkflow("Empty", nil, nil)
	engine, _ := newTestEngine(t, wf)

	execution, err := engine.Execute(context.Background(), wf.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, models.ExecutionStatusFailed, execution.Status)
	assert.Equal(t, "Workflow has no nodes", execution.ErrorDetails)
	assert.Contains(t, execution.ExecutionLog, "=== Workflow Execution Failed ===")
	assert.Contains(t, execution.ExecutionLog, "Error: Workflow has no nodes")
}

func TestEngine_Execute_MalformedGraphFails(t *testing.T) {
	wf := testutil.CreateTestWorkflow("Broken", nil, nil)
	wf.NodesJSON = "{not json"

	engine, _ := newTestEngine(t, wf)

	execution, err := engine.Execute(context.Background(), wf.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, models.ExecutionStatusFailed, execution.Status)
	assert.Equal(t, "Workflow has no nodes", execution.ErrorDetails)
}

func TestEngine_Execute_NodeFailureIsFatal(t *testing.T) {
	failing := &stubExecutor{nodeType: "stub", err: errors.New("boom")}

	wf := testutil.CreateTestWorkflow("Failing",
		[]*models.WorkflowNode{
			testutil.CreateTestNode(testutil.WithID("t"), testutil.WithType("trigger")),
			testutil.CreateTestNode(testutil.WithID("bad"), testutil.WithType("stub")),
			testutil.CreateTestNode(testutil.WithID("after"), testutil.WithType("stub")),
		},
		[]*models.WorkflowEdge{
			testutil.Edge("t", "bad", ""),
			testutil.Edge("bad", "after", ""),
		},
	)

	engine, _ := newTestEngine(t, wf, failing)

	execution, err := engine.Execute(context.Background(), wf.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, models.ExecutionStatusFailed, execution.Status)
	// Error details carry the innermost cause, not the wrapping chain.
	assert.Equal(t, "boom", execution.ErrorDetails)
	assert.Contains(t, execution.ExecutionLog, "Error executing node bad: boom")
	assert.Contains(t, execution.ExecutionLog, "=== Workflow Execution Failed ===")
	// The walk stops at the failing node.
	assert.Equal(t, []string{"bad"}, failing.calls)
}

func TestEngine_Execute_CycleTerminates(t *testing.T) {
	action := &stubExecutor{nodeType: "stub"}

	wf := testutil.CreateTestWorkflow("Cycle",
		[]*models.WorkflowNode{
			testutil.CreateTestNode(testutil.WithID("a"), testutil.WithType("stub")),
			testutil.CreateTestNode(testutil.WithID("b"), testutil.WithType("stub")),
		},
		[]*models.WorkflowEdge{
			testutil.Edge("a", "b", ""),
			testutil.Edge("b", "a", ""),
		},
	)

	engine, _ := newTestEngine(t, wf, action)

	execution, err := engine.Execute(context.Background(), wf.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, models.ExecutionStatusCompleted, execution.Status)
	assert.Equal(t, []string{"a", "b"}, action.calls)
	assert.Contains(t, execution.ExecutionLog, "Node already visited, skipping: a")
}

func TestEngine_Execute_StartsFromTriggerNotFirstNode(t *testing.T) {
	action := &stubExecutor{nodeType: "stub"}

	wf := testutil.CreateTestWorkflow("Trigger Later",
		[]*models.WorkflowNode{
			testutil.CreateTestNode(testutil.WithID("work"), testutil.WithType("stub")),
			testutil.CreateTestNode(testutil.WithID("entry"), testutil.WithType("trigger")),
		},
		[]*models.WorkflowEdge{testutil.Edge("entry", "work", "")},
	)

	engine, _ := newTestEngine(t, wf, action)

	execution, err := engine.Execute(context.Background(), wf.ID, nil)
	require.NoError(t, err)

	assert.Contains(t, execution.ExecutionLog, "Starting from node: entry (type: trigger)")
	assert.Equal(t, []string{"work"}, action.calls)
}

func TestEngine_Execute_UnknownNodeTypeIsSkipped(t *testing.T) {
	action := &stubExecutor{nodeType: "stub"}

	wf := testutil.CreateTestWorkflow("Unknown Type",
		[]*models.WorkflowNode{
			testutil.CreateTestNode(testutil.WithID("t"), testutil.WithType("trigger")),
			testutil.CreateTestNode(testutil.WithID("mystery"), testutil.WithType("teleport")),
			testutil.CreateTestNode(testutil.WithID("work"), testutil.WithType("stub")),
		},
		[]*models.WorkflowEdge{
			testutil.Edge("t", "mystery", ""),
			testutil.Edge("mystery", "work", ""),
		},
	)

	engine, _ := newTestEngine(t, wf, action)

	execution, err := engine.Execute(context.Background(), wf.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, models.ExecutionStatusCompleted, execution.Status)
	assert.Contains(t, execution.ExecutionLog, "Warning: No executor found for node type: teleport")
	// The walk continues past the unknown node.
	assert.Equal(t, []string{"work"}, action.calls)
}

func TestEngine_Execute_DanglingEdgeIsSkipped(t *testing.T) {
	action := &stubExecutor{nodeType: "stub"}

	wf := testutil.CreateTestWorkflow("Dangling",
		[]*models.WorkflowNode{
			testutil.CreateTestNode(testutil.WithID("t"), testutil.WithType("trigger")),
			testutil.CreateTestNode(testutil.WithID("work"), testutil.WithType("stub")),
		},
		[]*models.WorkflowEdge{
			testutil.Edge("t", "ghost", ""),
			testutil.Edge("t", "work", ""),
		},
	)

	engine, _ := newTestEngine(t, wf, action)

	execution, err := engine.Execute(context.Background(), wf.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, models.ExecutionStatusCompleted, execution.Status)
	assert.Contains(t, execution.ExecutionLog, "Warning: Next node not found for edge target: ghost")
	assert.Equal(t, []string{"work"}, action.calls)
}

func TestEngine_Execute_ConditionFollowsTrueBranchOnly(t *testing.T) {
	action := &stubExecutor{nodeType: "stub"}

	wf := testutil.CreateTestWorkflow("Branching",
		[]*models.WorkflowNode{
			testutil.CreateTestNode(testutil.WithID("t"), testutil.WithType("trigger")),
			testutil.CreateTestNode(testutil.WithID("check"), testutil.WithType("condition"),
				testutil.WithConfig(map[string]any{
					"left":     "${amount}",
					"operator": "greaterThan",
					"right":    "100",
				})),
			testutil.CreateTestNode(testutil.WithID("yes"), testutil.WithType("stub")),
			testutil.CreateTestNode(testutil.WithID("no"), testutil.WithType("stub")),
		},
		[]*models.WorkflowEdge{
			testutil.Edge("t", "check", ""),
			testutil.Edge("check", "yes", "true"),
			testutil.Edge("check", "no", "false"),
		},
	)

	logger := testLogger()
	reg := registry.NewRegistry(logger)
	reg.Register(condition.NewExecutor(logger))
	reg.Register(action)

	executions := testutil.NewExecutionStore()
	engine := NewEngine(logger, testutil.NewWorkflowStore(wf), executions, reg, nil, nil)

	execution, err := engine.Execute(context.Background(), wf.ID, map[string]any{"amount": 250})
	require.NoError(t, err)

	assert.Equal(t, models.ExecutionStatusCompleted, execution.Status)
	assert.Contains(t, execution.ExecutionLog, "Following TRUE branch to node: yes")
	assert.NotContains(t, execution.ExecutionLog, "Following FALSE branch")
	assert.Equal(t, []string{"yes"}, action.calls)
}

func TestEngine_Execute_ConditionUnlabeledEdgeUntaken(t *testing.T) {
	action := &stubExecutor{nodeType: "stub"}
	conditionStub := &stubExecutor{nodeType: "condition", result: true}

	wf := testutil.CreateTestWorkflow("Unlabeled",
		[]*models.WorkflowNode{
			testutil.CreateTestNode(testutil.WithID("check"), testutil.WithType("condition")),
			testutil.CreateTestNode(testutil.WithID("next"), testutil.WithType("stub")),
		},
		[]*models.WorkflowEdge{testutil.Edge("check", "next", "")},
	)

	engine, _ := newTestEngine(t, wf, action, conditionStub)

	execution, err := engine.Execute(context.Background(), wf.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, models.ExecutionStatusCompleted, execution.Status)
	assert.Empty(t, action.calls)
	assert.NotContains(t, execution.ExecutionLog, "Following edge to node: next")
}

func TestEngine_Execute_NodeResultStoredAsVariable(t *testing.T) {
	producer := &stubExecutor{nodeType: "producer", result: "payload"}
	consumer := &consumerExecutor{}

	wf := testutil.CreateTestWorkflow("Result Passing",
		[]*models.WorkflowNode{
			testutil.CreateTestNode(testutil.WithID("p"), testutil.WithType("producer")),
			testutil.CreateTestNode(testutil.WithID("c"), testutil.WithType("consumer")),
		},
		[]*models.WorkflowEdge{testutil.Edge("p", "c", "")},
	)

	logger := testLogger()
	reg := registry.NewRegistry(logger)
	reg.Register(producer)
	reg.Register(consumer)

	engine := NewEngine(logger, testutil.NewWorkflowStore(wf), testutil.NewExecutionStore(), reg, nil, nil)

	_, err := engine.Execute(context.Background(), wf.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, "payload", consumer.seen)
}

type consumerExecutor struct {
	seen any
}

func (c *consumerExecutor) Execute(_ context.Context, _ *models.WorkflowNode, ectx *models.ExecutionContext) (any, error) {
	c.seen, _ = ectx.Variable("p_result")

	return nil, nil
}

func (c *consumerExecutor) NodeType() string {
	return "consumer"
}
