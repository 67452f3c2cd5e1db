package hooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// GitRunner executes a git subcommand and returns its stdout with the
// trailing newline removed. Injectable so tests need no git binary.
type GitRunner func(ctx context.Context, args ...string) (string, error)

func execGit(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = io.Discard

	if err := cmd.Run(); err != nil {
		return "", err
	}
	return strings.TrimRight(stdout.String(), "\n"), nil
}

// GitContextHook injects repository state (branch, divergence, recent
// commits, working tree) into the session as additional context.
type GitContextHook struct {
	git GitRunner
}

// NewGitContextHook creates the SessionStart git context hook.
func NewGitContextHook() *GitContextHook {
	return &GitContextHook{git: execGit}
}

// Name implements Hook.
func (h *GitContextHook) Name() string { return "git-context" }

// Event implements Hook.
func (h *GitContextHook) Event() Event { return EventSessionStart }

// Description implements Hook.
func (h *GitContextHook) Description() string {
	return "Injects branch, status, and upstream divergence at session start"
}

// Run gathers repository state with individual fallbacks per command, so a
// partially broken repo still yields useful context. Outside a repository
// the output is the literal line "Not in a git repository".
func (h *GitContextHook) Run(ctx context.Context, _ *Payload) Result {
	if _, err := h.git(ctx, "rev-parse", "--is-inside-work-tree"); err != nil {
		return Result{Decision: DecisionAllow, Output: "Not in a git repository\n"}
	}

	branch, err := h.git(ctx, "branch", "--show-current")
	if err != nil || branch == "" {
		branch = "detached HEAD"
	}

	// Literal tab between the ahead and behind counts
	upstream, err := h.git(ctx, "rev-list", "--left-right", "--count", "HEAD...@{upstream}")
	if err != nil || upstream == "" {
		upstream = "0\t0"
	}

	recent, err := h.git(ctx, "log", "--oneline", "-5")
	if err != nil || recent == "" {
		recent = "none"
	}

	status, err := h.git(ctx, "status", "--porcelain")
	if err != nil || status == "" {
		status = "clean"
	}

	context := fmt.Sprintf(
		"Git repository context:\nBranch: %s\nAhead/behind upstream: %s\nRecent commits:\n%s\nWorking tree:\n%s",
		branch, upstream, recent, status)

	return Result{Decision: DecisionAllow, Output: encodeSessionContext(context)}
}

type sessionContextOutput struct {
	HookSpecificOutput sessionContext `json:"hookSpecificOutput"`
}

type sessionContext struct {
	HookEventName     string `json:"hookEventName"`
	AdditionalContext string `json:"additionalContext"`
}

// encodeSessionContext renders the SessionStart JSON envelope. HTML escaping
// is off so angle brackets in commit subjects survive verbatim.
func encodeSessionContext(context string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	out := sessionContextOutput{
		HookSpecificOutput: sessionContext{
			HookEventName:     string(EventSessionStart),
			AdditionalContext: context,
		},
	}
	if err := enc.Encode(out); err != nil {
		return ""
	}
	return buf.String()
}
