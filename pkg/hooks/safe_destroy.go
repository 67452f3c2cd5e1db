package hooks

import (
	"context"
	"regexp"
)

type destructivePattern struct {
	re     *regexp.Regexp
	reason string
}

var destructivePatterns = []destructivePattern{
	// Git
	{regexp.MustCompile(`(?i)\bgit\s+reset\s+--hard\b`), "git reset --hard destroys uncommitted changes"},
	{regexp.MustCompile(`(?i)\bgit\s+clean\s+-[fd]+\b`), "git clean permanently deletes untracked files"},
	{regexp.MustCompile(`(?i)\bgit\s+checkout\s+--\s+\.`), "git checkout -- . discards all changes"},
	{regexp.MustCompile(`(?i)\bgit\s+restore\s+\.`), "git restore . discards all changes"},
	{regexp.MustCompile(`(?i)\bgit\s+push\s+.*--force\b`), "git push --force can overwrite remote history"},
	{regexp.MustCompile(`(?i)\bgit\s+push\s+.*-f\b`), "git push -f can overwrite remote history"},

	// File system
	{regexp.MustCompile(`(?i)\brm\s+-rf\b`), "rm -rf permanently deletes files"},
	{regexp.MustCompile(`(?i)\brm\s+-fr\b`), "rm -fr permanently deletes files"},
	{regexp.MustCompile(`(?i)\brm\s+.*-r.*-f\b`), "rm with -rf permanently deletes files"},

	// Docker
	{regexp.MustCompile(`(?i)\bdocker\s+system\s+prune\b`), "docker system prune removes unused data"},
	{regexp.MustCompile(`(?i)\bdocker\s+volume\s+prune\b`), "docker volume prune removes volumes"},

	// Kubernetes
	{regexp.MustCompile(`(?i)\bkubectl\s+delete\b`), "kubectl delete removes resources"},
}

// Safe variants that skip the warning
var destroyAllowPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)--dry-run`),
	regexp.MustCompile(`(?i)-n\b`),
}

// SafeDestroyHook warns on commands that can cause data loss. Warn-only:
// the safe-destroy skill runs after the user confirms, so blocking here
// would dead-lock the workflow.
type SafeDestroyHook struct{}

// NewSafeDestroyHook creates the PreToolUse destructive command warning hook.
func NewSafeDestroyHook() *SafeDestroyHook {
	return &SafeDestroyHook{}
}

// Name implements Hook.
func (h *SafeDestroyHook) Name() string { return "safe-destroy" }

// Event implements Hook.
func (h *SafeDestroyHook) Event() Event { return EventPreToolUse }

// Description implements Hook.
func (h *SafeDestroyHook) Description() string {
	return "Warns on destructive commands that can cause data loss"
}

// ToolMatcher returns the settings.json matcher for this hook.
func (h *SafeDestroyHook) ToolMatcher() string { return "Bash" }

// Run implements Hook.
func (h *SafeDestroyHook) Run(_ context.Context, payload *Payload) Result {
	command := payload.Command()
	if payload.ToolName != "Bash" || command == "" {
		return Result{Decision: DecisionAllow}
	}

	for _, pattern := range destroyAllowPatterns {
		if pattern.MatchString(command) {
			return Result{Decision: DecisionAllow}
		}
	}

	for _, pattern := range destructivePatterns {
		if pattern.re.MatchString(command) {
			reason := "⚠️  DESTRUCTIVE COMMAND WARNING\n" +
				"   " + pattern.reason + "\n" +
				"   Ensure safe-destroy skill was used for confirmation.\n"
			return Result{Decision: DecisionWarn, Reason: reason}
		}
	}

	return Result{Decision: DecisionAllow}
}
