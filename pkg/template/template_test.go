package template

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pepperonas/taskflow-platform/pkg/models"
)

func newContext(variables, triggerData map[string]any) *models.ExecutionContext {
	ectx := models.NewExecutionContext(triggerData)
	for name, value := range variables {
		ectx.SetVariable(name, value)
	}

	return ectx
}

func TestResolve(t *testing.T) {
	ectx := newContext(map[string]any{"name": "Alice"}, nil)

	assert.Equal(t, "Hello Alice!", Resolve("Hello {{name}}!", ectx))
}

func TestResolve_WhitespaceInsideToken(t *testing.T) {
	ectx := newContext(map[string]any{"name": "Alice"}, nil)

	assert.Equal(t, "Hello Alice", Resolve("Hello {{ name }}", ectx))
}

func TestResolve_MissingTokenLeftVerbatim(t *testing.T) {
	ectx := newContext(nil, nil)

	assert.Equal(t, "Hello {{missing}}", Resolve("Hello {{missing}}", ectx))
}

func TestResolve_VariablesShadowTriggerData(t *testing.T) {
	ectx := newContext(
		map[string]any{"value": "from-vars"},
		map[string]any{"value": "from-trigger"},
	)

	assert.Equal(t, "from-vars", Resolve("{{value}}", ectx))
}

func TestResolve_TriggerDataFallback(t *testing.T) {
	ectx := newContext(nil, map[string]any{"orderId": "42"})

	assert.Equal(t, "order 42", Resolve("order {{orderId}}", ectx))
}

func TestResolve_NonStringValueStringified(t *testing.T) {
	ectx := newContext(map[string]any{"count": 7, "ratio": 2.5, "ok": true}, nil)

	assert.Equal(t, "7 2.5 true", Resolve("{{count}} {{ratio}} {{ok}}", ectx))
}

func TestResolve_NoTokensIsNoOp(t *testing.T) {
	ectx := newContext(map[string]any{"name": "Alice"}, nil)

	assert.Equal(t, "plain text", Resolve("plain text", ectx))
}

func TestResolveValue_Literal(t *testing.T) {
	value, ok := ResolveValue("literal", newContext(nil, nil))

	assert.True(t, ok)
	assert.Equal(t, "literal", value)
}

func TestResolveValue_Reference(t *testing.T) {
	ectx := newContext(map[string]any{"status": "ACTIVE"}, nil)

	value, ok := ResolveValue("${status}", ectx)

	assert.True(t, ok)
	assert.Equal(t, "ACTIVE", value)
}

func TestResolveValue_MissingReference(t *testing.T) {
	value, ok := ResolveValue("${missing}", newContext(nil, nil))

	assert.False(t, ok)
	assert.Empty(t, value)
}

func TestResolveValue_NumberStringified(t *testing.T) {
	ectx := newContext(nil, map[string]any{"amount": 250})

	value, ok := ResolveValue("${amount}", ectx)

	assert.True(t, ok)
	assert.Equal(t, "250", value)
}
