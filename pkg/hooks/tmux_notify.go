package hooks

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// TmuxNotifyHook flags the tmux window and fires a desktop notification when
// the agent finishes a turn, so a backgrounded session gets noticed.
type TmuxNotifyHook struct {
	getenv   func(string) string
	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args ...string) error
	bell     io.Writer
}

// NewTmuxNotifyHook creates the Stop notification hook.
func NewTmuxNotifyHook() *TmuxNotifyHook {
	return &TmuxNotifyHook{
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
		run:      runCommand,
		bell:     os.Stderr,
	}
}

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return cmd.Run()
}

// Name implements Hook.
func (h *TmuxNotifyHook) Name() string { return "tmux-notify" }

// Event implements Hook.
func (h *TmuxNotifyHook) Event() Event { return EventStop }

// Description implements Hook.
func (h *TmuxNotifyHook) Description() string {
	return "Rings the tmux window and sends a desktop notification on stop"
}

// Run performs the notification side effects only inside a tmux session and
// always prints `{}` so the host sees valid JSON. The bell goes to stderr;
// stdout stays pure protocol output. Every subprocess error is ignored.
func (h *TmuxNotifyHook) Run(ctx context.Context, _ *Payload) Result {
	if h.getenv("TMUX") != "" {
		_ = h.run(ctx, "tmux", "set-window-option", "monitor-bell", "on")
		fmt.Fprint(h.bell, "\a")

		if _, err := h.lookPath("notify-send"); err == nil {
			_ = h.run(ctx, "notify-send", "Claude Code", "Task complete")
		}
	}

	return Result{Decision: DecisionAllow, Output: "{}\n"}
}
