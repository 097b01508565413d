// Package template substitutes workflow context values into node
// configuration strings.
//
// Two token forms exist: "{{name}}" for in-place substitution inside larger
// strings, and "${name}" for whole-value indirection in condition operands.
// Lookups check the run's variables first, then the trigger data. Tokens that
// match nothing are left verbatim; this leniency is deliberate so that a typo
// produces a visible literal in the output instead of aborting the run.
package template

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pepperonas/taskflow-platform/pkg/models"
)

var tokenPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.\-]+)\s*\}\}`)

// Resolve replaces every {{name}} token in s with the stringified context
// value. No-op when s contains no token.
func Resolve(s string, ectx *models.ExecutionContext) string {
	if !strings.Contains(s, "{{") {
		return s
	}

	return tokenPattern.ReplaceAllStringFunc(s, func(token string) string {
		name := tokenPattern.FindStringSubmatch(token)[1]

		if value, ok := lookup(name, ectx); ok {
			return stringify(value)
		}

		return token
	})
}

// ResolveValue resolves a condition operand. Operands of the exact form
// "${name}" are dereferenced against the context; anything else is a literal.
// The second return is false when the operand is absent: either the literal
// was empty-by-omission (caller decides) or the ${} reference matched nothing.
func ResolveValue(s string, ectx *models.ExecutionContext) (string, bool) {
	if !strings.HasPrefix(s, "${") || !strings.HasSuffix(s, "}") {
		return s, true
	}

	name := s[2 : len(s)-1]

	value, ok := lookup(name, ectx)
	if !ok || value == nil {
		return "", false
	}

	return stringify(value), true
}

func lookup(name string, ectx *models.ExecutionContext) (any, bool) {
	if value, ok := ectx.Variables[name]; ok {
		return value, true
	}

	if value, ok := ectx.TriggerData[name]; ok {
		return value, true
	}

	return nil, false
}

func stringify(value any) string {
	if value == nil {
		return ""
	}

	if s, ok := value.(string); ok {
		return s
	}

	return fmt.Sprintf("%v", value)
}
