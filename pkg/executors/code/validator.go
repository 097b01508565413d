package code

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrValidation marks a script rejected by the static denylist. It is a hard
// failure: the interpreter is never invoked.
var ErrValidation = errors.New("code validation failed")

// deniedConstructs lists identifiers that would reach outside the sandbox:
// global/process/host-object access, filesystem and OS access, network
// primitives, process/thread spawning, dynamic code evaluation, timers and
// module loading. Matching is word-bounded, so an identifier merely containing
// one of these as a substring (e.g. "evaluation") passes.
var deniedConstructs = []string{
	"process", "window", "document", "global", "globalThis",
	"require", "import", "module",
	"eval", "Function",
	"XMLHttpRequest", "fetch", "WebSocket",
	"setTimeout", "setInterval", "setImmediate",
	"child_process", "spawn", "fork", "exec",
	"fs", "os", "net", "http", "socket",
	"Worker", "thread",
	"syscall", "unsafe", "runtime", "reflect",
}

var denyPattern = buildDenyPattern()

func buildDenyPattern() *regexp.Regexp {
	pattern := `\b(`
	for i, construct := range deniedConstructs {
		if i > 0 {
			pattern += "|"
		}

		pattern += regexp.QuoteMeta(construct)
	}
	pattern += `)\b`

	return regexp.MustCompile(pattern)
}

// Validate scans source for denylisted constructs. The first match rejects
// the whole script.
func Validate(source string) error {
	if match := denyPattern.FindString(source); match != "" {
		return fmt.Errorf("%w: forbidden construct %q", ErrValidation, match)
	}

	return nil
}
