package watch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Delta returns a one-line summary of how curr differs from prev. A nil
// prev yields an empty summary.
func Delta(prev, curr *RunResult) string {
	if prev == nil || curr == nil {
		return ""
	}

	var parts []string

	add := func(name string, before, after int) {
		if d := after - before; d != 0 {
			parts = append(parts, fmt.Sprintf("%s %+d", name, d))
		}
	}

	add("accepted", prev.Accepted, curr.Accepted)
	add("rejected", prev.Rejected, curr.Rejected)
	add("duplicates", prev.Duplicates, curr.Duplicates)
	add("bytes", prev.Bytes, curr.Bytes)

	if len(parts) == 0 {
		return "unchanged"
	}

	return strings.Join(parts, ", ")
}

// tracker serialises runs and remembers the last successful result.
type tracker struct {
	opts  Options
	runFn RunFunc

	mu   sync.Mutex
	last *RunResult
}

func (t *tracker) run(ctx context.Context, trigger string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now().Format("15:04:05")

	result, err := t.runFn(ctx)
	if err != nil {
		fmt.Fprintf(t.opts.Out, "[%s] %s → ERROR: %v\n", now, trigger, err)
		return
	}

	fmt.Fprintf(t.opts.Out, "[%s] %s → OK (%d quads, %d rejected)\n",
		now, trigger, result.Accepted, result.Rejected)

	if d := Delta(t.last, result); d != "" {
		fmt.Fprintf(t.opts.Out, "  change: %s\n", d)
	}

	t.last = result
}
