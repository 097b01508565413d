// Package httprequest implements the node that performs an outbound HTTP
// call through the HTTP collaborator.
package httprequest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pepperonas/taskflow-platform/pkg/models"
	"github.com/pepperonas/taskflow-platform/pkg/protocol"
	"github.com/pepperonas/taskflow-platform/pkg/template"
)

// Executor performs httpRequest nodes. Transport failures are soft: the
// result map carries {error:true, message, statusCode:0} and the run
// continues; HTTP error statuses are regular results, not failures.
type Executor struct {
	logger *slog.Logger
	client protocol.HTTPDoer
}

func NewExecutor(logger *slog.Logger, client protocol.HTTPDoer) *Executor {
	return &Executor{
		logger: logger,
		client: client,
	}
}

func (e *Executor) NodeType() string {
	return "httpRequest"
}

func (e *Executor) Execute(ctx context.Context, node *models.WorkflowNode, ectx *models.ExecutionContext) (any, error) {
	ectx.Log("Executing HttpRequest node: " + node.ID)

	url := template.Resolve(node.ConfigString("url"), ectx)

	method := strings.ToUpper(node.ConfigString("method"))
	if method == "" {
		method = http.MethodGet
	}

	ectx.Log(fmt.Sprintf("HTTP Request: %s %s", method, url))

	var body io.Reader

	if raw := node.ConfigString("body"); raw != "" {
		body = strings.NewReader(template.Resolve(raw, ectx))
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return e.softFail(ectx, err), nil
	}

	req.Header.Set("Content-Type", "application/json")

	// Headers arrive from the editor as a list of {key, value} pairs; values
	// are templated.
	if raw, ok := node.ConfigValue("headers"); ok {
		if headers, ok := raw.([]any); ok {
			for _, item := range headers {
				header, ok := item.(map[string]any)
				if !ok {
					continue
				}

				key, _ := header["key"].(string)
				value, _ := header["value"].(string)

				if key != "" {
					req.Header.Set(key, template.Resolve(value, ectx))
				}
			}
		}
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return e.softFail(ectx, err), nil
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return e.softFail(ectx, err), nil
	}

	headers := make(map[string]any, len(resp.Header))
	for key := range resp.Header {
		headers[key] = resp.Header.Get(key)
	}

	ectx.Log(fmt.Sprintf("HTTP Request successful - Status: %d", resp.StatusCode))

	return map[string]any{
		"statusCode": resp.StatusCode,
		"headers":    headers,
		"body":       decodeBody(responseBody),
	}, nil
}

func (e *Executor) softFail(ectx *models.ExecutionContext, err error) map[string]any {
	e.logger.Error("HTTP request failed", "error", err)
	ectx.Log("HTTP Request failed: " + err.Error())

	return map[string]any{
		"error":      true,
		"message":    err.Error(),
		"statusCode": 0,
	}
}

// decodeBody keeps JSON responses structured and falls back to the raw string
// for everything else.
func decodeBody(body []byte) any {
	if len(body) == 0 {
		return nil
	}

	var decoded any
	if err := json.Unmarshal(body, &decoded); err == nil {
		return decoded
	}

	return string(body)
}
