package web_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pepperonas/taskflow-platform/pkg/cmd"
	"github.com/pepperonas/taskflow-platform/pkg/executors/code"
	"github.com/pepperonas/taskflow-platform/pkg/models"
	"github.com/pepperonas/taskflow-platform/pkg/persistence/file"
	"github.com/pepperonas/taskflow-platform/pkg/services"
	"github.com/pepperonas/taskflow-platform/pkg/web"
	"github.com/pepperonas/taskflow-platform/pkg/workflow"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	validate := validator.New(validator.WithRequiredStructEnabled())
	store := file.NewPersistence(t.TempDir())

	taskService := services.NewTask(logger, store, validate, nil)

	workflowService, err := services.NewWorkflow(store)
	require.NoError(t, err)

	registry := cmd.NewRegistry(logger, cmd.Collaborators{Tasks: taskService})
	engine := workflow.NewEngine(logger, store, store, registry, nil, nil)

	handlers := web.NewAPIHandlers(
		workflowService,
		taskService,
		store,
		engine,
		code.NewExecutor(logger),
		validate,
		registry,
	)

	return web.NewApp(handlers)
}

func jsonRequest(method, url string, payload any) *http.Request {
	body, _ := json.Marshal(payload)

	req := httptest.NewRequest(method, url, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	return req
}

func decodeBody(t *testing.T, resp *http.Response, target any) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, target))
}

func TestCreateWorkflow(t *testing.T) {
	app := setupTestApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/workflows", map[string]any{
		"name":       "Order Flow",
		"nodes_json": `[{"id": "n1", "type": "trigger"}]`,
		"edges_json": `[]`,
	}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Workflow
	decodeBody(t, resp, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.WorkflowStatusDraft, created.Status)
}

func TestCreateWorkflow_ShortNameRejected(t *testing.T) {
	app := setupTestApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/workflows", map[string]any{"name": "ab"}))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateWorkflow_InvalidGraphRejected(t *testing.T) {
	app := setupTestApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/workflows", map[string]any{
		"name":       "Bad graph",
		"nodes_json": `[{"id": "n1"}]`,
	}))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetWorkflow_NotFound(t *testing.T) {
	app := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/workflows/missing", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExecuteWorkflow(t *testing.T) {
	app := setupTestApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/workflows", map[string]any{
		"name": "Delayed greeting",
		"nodes_json": `[
			{"id": "t", "type": "trigger"},
			{"id": "wait", "type": "delay", "data": {"config": {"delayMs": 1}}}
		]`,
		"edges_json": `[{"source": "t", "target": "wait"}]`,
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Workflow
	decodeBody(t, resp, &created)

	resp, err = app.Test(jsonRequest(http.MethodPost, "/workflows/"+created.ID+"/execute", map[string]any{
		"trigger_data": map[string]any{"source": "test"},
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var execution web.ExecutionResponse
	decodeBody(t, resp, &execution)
	assert.Equal(t, "COMPLETED", execution.Status)
	assert.Contains(t, execution.ExecutionLog, "=== Workflow Execution Completed Successfully ===")

	// The audit record is retrievable afterwards.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/workflows/"+created.ID+"/executions", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var executions []web.ExecutionResponse
	decodeBody(t, resp, &executions)
	require.Len(t, executions, 1)
	assert.Equal(t, execution.ID, executions[0].ID)
}

func TestExecuteWorkflow_EmptyGraphReportsFailedRecord(t *testing.T) {
	app := setupTestApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/workflows", map[string]any{"name": "Empty flow"}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Workflow
	decodeBody(t, resp, &created)

	resp, err = app.Test(jsonRequest(http.MethodPost, "/workflows/"+created.ID+"/execute", map[string]any{}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var execution web.ExecutionResponse
	decodeBody(t, resp, &execution)
	assert.Equal(t, "FAILED", execution.Status)
	assert.Equal(t, "Workflow has no nodes", execution.ErrorDetails)
}

func TestExecuteWorkflow_UnknownWorkflow(t *testing.T) {
	app := setupTestApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/workflows/missing/execute", map[string]any{}))
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTaskLifecycle(t *testing.T) {
	app := setupTestApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/tasks", map[string]any{
		"title":    "Review order",
		"priority": "HIGH",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var task models.Task
	decodeBody(t, resp, &task)
	assert.Equal(t, models.TaskStatusOpen, task.Status)

	resp, err = app.Test(jsonRequest(http.MethodPatch, "/tasks/"+task.ID, map[string]any{
		"status": "COMPLETED",
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Task
	decodeBody(t, resp, &updated)
	assert.Equal(t, models.TaskStatusCompleted, updated.Status)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/tasks/"+task.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/tasks/"+task.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestExecuteCode(t *testing.T) {
	app := setupTestApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/code/execute", map[string]any{
		"code":         "$trigger.a + $vars.b",
		"trigger_data": map[string]any{"a": 1},
		"variables":    map[string]any{"b": 2},
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result web.ExecuteCodeResponse
	decodeBody(t, resp, &result)
	assert.Empty(t, result.Error)
	assert.InDelta(t, 3, result.Result.(float64), 0.001)
}

func TestExecuteCode_DeniedConstruct(t *testing.T) {
	app := setupTestApp(t)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/code/execute", map[string]any{
		"code": `require("fs")`,
	}))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result web.ExecuteCodeResponse
	decodeBody(t, resp, &result)
	assert.Contains(t, result.Error, "code validation failed")
}

func TestHealthEndpoint(t *testing.T) {
	app := setupTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
