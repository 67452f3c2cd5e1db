package hooks

import (
	"context"
	"regexp"
)

// Patterns that indicate a git commit command
var commitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bgit\s+commit\b`),
	regexp.MustCompile(`(?i)\bgit\s+.*\bcommit\b`),
}

// Bypass scenarios that look like commits but are not
var commitAllowPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)--dry-run`),
	regexp.MustCompile(`(?i)--no-commit`),
	regexp.MustCompile(`(?i)git\s+log.*commit`),
	regexp.MustCompile(`(?i)git\s+show.*commit`),
	regexp.MustCompile(`(?i)git\s+rev-parse`),
}

const safeCommitReminder = "⚠️  REMINDER: Use safe-commit skill for commits\n" +
	"   This ensures security scan, quality check, and tests pass.\n"

// SafeCommitHook reminds the agent to go through the safe-commit skill for
// git commits. Warn-only: a hook cannot tell a skill-invoked commit from a
// manual one, so the policy document is the real enforcement.
type SafeCommitHook struct{}

// NewSafeCommitHook creates the PreToolUse commit reminder hook.
func NewSafeCommitHook() *SafeCommitHook {
	return &SafeCommitHook{}
}

// Name implements Hook.
func (h *SafeCommitHook) Name() string { return "safe-commit" }

// Event implements Hook.
func (h *SafeCommitHook) Event() Event { return EventPreToolUse }

// Description implements Hook.
func (h *SafeCommitHook) Description() string {
	return "Warns when git commit is run outside the safe-commit skill"
}

// ToolMatcher returns the settings.json matcher for this hook.
func (h *SafeCommitHook) ToolMatcher() string { return "Bash" }

// Run implements Hook.
func (h *SafeCommitHook) Run(_ context.Context, payload *Payload) Result {
	command := payload.Command()
	if payload.ToolName != "Bash" || command == "" {
		return Result{Decision: DecisionAllow}
	}

	for _, pattern := range commitAllowPatterns {
		if pattern.MatchString(command) {
			return Result{Decision: DecisionAllow}
		}
	}

	for _, pattern := range commitPatterns {
		if pattern.MatchString(command) {
			return Result{Decision: DecisionWarn, Reason: safeCommitReminder}
		}
	}

	return Result{Decision: DecisionAllow}
}
