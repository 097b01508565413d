// Package condition implements the branching node: it evaluates a comparison
// (or an expression) and yields the boolean the engine's branch policy
// consumes.
package condition

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/pepperonas/taskflow-platform/pkg/models"
	"github.com/pepperonas/taskflow-platform/pkg/template"
)

// Executor evaluates condition nodes. Two modes exist: the left/operator/right
// comparison (the default), and an "expression" config evaluated with
// expr-lang against the run's variables and trigger data. Compiled expression
// programs are cached across runs; the cache is the only shared state and is
// guarded by a mutex.
type Executor struct {
	logger *slog.Logger

	mu    sync.Mutex
	cache map[string]*vm.Program
}

func NewExecutor(logger *slog.Logger) *Executor {
	return &Executor{
		logger: logger,
		cache:  make(map[string]*vm.Program),
	}
}

func (e *Executor) NodeType() string {
	return "condition"
}

func (e *Executor) Execute(_ context.Context, node *models.WorkflowNode, ectx *models.ExecutionContext) (any, error) {
	ectx.Log("Executing Condition node: " + node.ID)

	if expression := node.ConfigString("expression"); expression != "" {
		return e.evaluateExpression(expression, node, ectx)
	}

	left, leftOK := operand(node, "left", ectx)
	operator := node.ConfigString("operator")
	right, rightOK := operand(node, "right", ectx)

	// A missing operand, or one whose ${} reference resolved to nothing,
	// compares as absent: the condition is false, never an error.
	result := leftOK && rightOK && e.evaluate(left, operator, right, ectx)

	ectx.Log(fmt.Sprintf("Condition evaluated: %s %s %s = %t", left, operator, right, result))

	return result, nil
}

// operand fetches one comparison side from the node config. A key that is
// absent or null yields false; a present value still goes through ${}
// indirection, which can itself resolve to nothing.
func operand(node *models.WorkflowNode, key string, ectx *models.ExecutionContext) (string, bool) {
	raw, ok := node.ConfigValue(key)
	if !ok || raw == nil {
		return "", false
	}

	value, isString := raw.(string)
	if !isString {
		value = fmt.Sprintf("%v", raw)
	}

	return template.ResolveValue(value, ectx)
}

func (e *Executor) evaluate(left, operator, right string, ectx *models.ExecutionContext) bool {
	switch operator {
	case "equals", "==":
		return left == right
	case "notEquals", "!=":
		return left != right
	case "contains":
		return strings.Contains(left, right)
	case "startsWith":
		return strings.HasPrefix(left, right)
	case "endsWith":
		return strings.HasSuffix(left, right)
	case "greaterThan", ">":
		l, r, ok := parseOperands(left, right)

		return ok && l > r
	case "lessThan", "<":
		l, r, ok := parseOperands(left, right)

		return ok && l < r
	default:
		e.logger.Warn("Unknown condition operator", "operator", operator)
		ectx.Log("Warning: Unknown operator: " + operator)

		return false
	}
}

// parseOperands parses both sides as float64; either side failing makes the
// numeric comparison false rather than an error.
func parseOperands(left, right string) (float64, float64, bool) {
	l, err := strconv.ParseFloat(left, 64)
	if err != nil {
		return 0, 0, false
	}

	r, err := strconv.ParseFloat(right, 64)
	if err != nil {
		return 0, 0, false
	}

	return l, r, true
}

func (e *Executor) evaluateExpression(expression string, node *models.WorkflowNode, ectx *models.ExecutionContext) (any, error) {
	program, err := e.compile(expression)
	if err != nil {
		ectx.Log("Warning: Invalid condition expression: " + err.Error())

		return false, nil
	}

	env := map[string]any{
		"vars":    ectx.Variables,
		"trigger": ectx.TriggerData,
	}

	out, err := vm.Run(program, env)
	if err != nil {
		ectx.Log("Warning: Condition expression failed: " + err.Error())

		return false, nil
	}

	result := truthy(out)

	ectx.Log(fmt.Sprintf("Condition expression evaluated: %s = %t", expression, result))

	return result, nil
}

func (e *Executor) compile(expression string) (*vm.Program, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if program, ok := e.cache[expression]; ok {
		return program, nil
	}

	program, err := expr.Compile(expression, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}

	e.cache[expression] = program

	return program, nil
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}

		return v != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case nil:
		return false
	default:
		return false
	}
}
