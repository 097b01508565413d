package code

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dop251/goja"
)

// ErrTimeout marks a script killed by the wall-clock bound.
var ErrTimeout = errors.New("code execution timeout")

// runSandboxed evaluates source in a fresh goja runtime. The runtime has no
// host capabilities at all: no filesystem, no network, no process access, no
// module loader, no timers. Only the provided bindings are visible.
//
// Evaluation happens on a worker goroutine so the timeout can genuinely
// cancel it: a watchdog interrupts the interpreter, which tears the run down
// at the next VM instruction. If the worker somehow does not come back
// immediately it is abandoned, never joined.
func runSandboxed(ctx context.Context, source string, bindings map[string]any, timeout time.Duration) (any, error) {
	vm := goja.New()

	for name, value := range bindings {
		if err := vm.Set(name, value); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", name, err)
		}
	}

	type evalResult struct {
		value goja.Value
		err   error
	}

	done := make(chan evalResult, 1)

	watchdog := time.AfterFunc(timeout, func() {
		vm.Interrupt("timeout")
	})
	defer watchdog.Stop()

	stop := context.AfterFunc(ctx, func() {
		vm.Interrupt("canceled")
	})
	defer stop()

	go func() {
		value, err := vm.RunString(source)
		done <- evalResult{value: value, err: err}
	}()

	select {
	case result := <-done:
		if result.err != nil {
			var interrupted *goja.InterruptedError
			if errors.As(result.err, &interrupted) {
				if ctx.Err() != nil {
					return nil, fmt.Errorf("code execution canceled: %w", ctx.Err())
				}

				return nil, fmt.Errorf("%w (%dms exceeded)", ErrTimeout, timeout.Milliseconds())
			}

			return nil, fmt.Errorf("code execution failed: %s", result.err.Error())
		}

		return normalize(result.value.Export()), nil
	case <-time.After(timeout + time.Second):
		// The interrupt did not land (should not happen without host calls);
		// abandon the worker and its interpreter.
		return nil, fmt.Errorf("%w (%dms exceeded)", ErrTimeout, timeout.Milliseconds())
	}
}

// normalize recursively converts an exported interpreter value into plain
// scalar/container types: string, int64, float64, bool, nil, []any and
// string-keyed maps.
func normalize(value any) any {
	switch v := value.(type) {
	case nil, bool, string, int64, float64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		return int64(v)
	case float32:
		return float64(v)
	case []any:
		list := make([]any, len(v))
		for i, item := range v {
			list[i] = normalize(item)
		}

		return list
	case map[string]any:
		m := make(map[string]any, len(v))
		for key, item := range v {
			m[key] = normalize(item)
		}

		return m
	default:
		return fmt.Sprintf("%v", v)
	}
}
