package hooks

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mriley/claudeguard/pkg/logger"
)

// Process exit codes of the hook protocol.
const (
	ExitAllow = 0
	ExitParse = 1
	ExitBlock = 2
)

// KillSwitchEnv disables every hook when set non-empty, so a wedged guard
// can be bypassed without editing settings.json.
const KillSwitchEnv = "CLAUDEGUARD_DISABLED"

// RecordFunc observes a completed hook run, typically to append an audit
// record. Implementations must not block; errors are the implementation's
// problem, never the run's.
type RecordFunc func(ctx context.Context, hook Hook, payload *Payload, result Result, took time.Duration)

// Runner dispatches `hook run` invocations to the builtin hooks and maps
// their decisions onto process exit codes.
type Runner struct {
	registry *Registry
	disabled map[string]bool
	record   RecordFunc
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithIO overrides the runner's streams, primarily for tests.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) RunnerOption {
	return func(r *Runner) {
		r.stdin = stdin
		r.stdout = stdout
		r.stderr = stderr
	}
}

// WithDisabled marks hook names from hooks.disabled as skipped.
func WithDisabled(names []string) RunnerOption {
	return func(r *Runner) {
		for _, name := range names {
			r.disabled[name] = true
		}
	}
}

// WithRecorder registers an observer for completed runs.
func WithRecorder(record RecordFunc) RunnerOption {
	return func(r *Runner) {
		r.record = record
	}
}

// NewRunner creates a Runner over the given registry.
func NewRunner(registry *Registry, opts ...RunnerOption) *Runner {
	r := &Runner{
		registry: registry,
		disabled: make(map[string]bool),
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the named hook and returns the process exit code. Only a
// blocking decision (exit 2) or a malformed payload (exit 1) is nonzero;
// everything else, including unknown hook names and internal failures,
// allows the caller to proceed.
func (r *Runner) Run(ctx context.Context, name string) int {
	if os.Getenv(KillSwitchEnv) != "" {
		return ExitAllow
	}
	if r.disabled[name] {
		return ExitAllow
	}

	hook, ok := r.registry.Get(name)
	if !ok {
		// Likely a settings.json written by a newer claudeguard; do not
		// block the agent over it
		fmt.Fprintf(r.stderr, "claudeguard: unknown hook %q\n", name)
		return ExitAllow
	}

	payload, err := ParsePayload(r.stdin)
	if err != nil {
		fmt.Fprintf(r.stderr, "Error parsing JSON input: %v\n", err)
		return ExitParse
	}

	start := time.Now()
	result := hook.Run(ctx, payload)

	if r.record != nil {
		r.record(ctx, hook, payload, result, time.Since(start))
	}

	logger.G(ctx).WithField("hook", name).
		WithField("decision", result.Decision).
		Debug("hook completed")

	if result.Output != "" {
		fmt.Fprint(r.stdout, result.Output)
	}
	if result.Reason != "" {
		fmt.Fprint(r.stderr, result.Reason)
	}

	if result.Decision == DecisionBlock {
		return ExitBlock
	}
	return ExitAllow
}
