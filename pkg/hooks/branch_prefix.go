package hooks

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/mriley/claudeguard/pkg/config"
)

// Patterns for branch creation; the first capture group is the new branch
// name. `git branch` also matches deletion flags, filtered below.
var branchCreatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bgit\s+checkout\s+-b\s+(\S+)`),
	regexp.MustCompile(`(?i)\bgit\s+branch\s+(\S+)`),
	regexp.MustCompile(`(?i)\bgit\s+switch\s+-c\s+(\S+)`),
}

// BranchPrefixHook blocks branch creation when the new name lacks the
// configured prefix. Inactive until hooks.branch.required_prefix is set.
type BranchPrefixHook struct {
	prefix  string
	allowed []string
}

// NewBranchPrefixHook creates the PreToolUse branch naming guard.
func NewBranchPrefixHook(cfg config.BranchConfig) *BranchPrefixHook {
	return &BranchPrefixHook{
		prefix:  cfg.RequiredPrefix,
		allowed: cfg.AllowedBranches,
	}
}

// Name implements Hook.
func (h *BranchPrefixHook) Name() string { return "branch-prefix" }

// Event implements Hook.
func (h *BranchPrefixHook) Event() Event { return EventPreToolUse }

// Description implements Hook.
func (h *BranchPrefixHook) Description() string {
	return "Blocks branch creation without the configured name prefix"
}

// ToolMatcher returns the settings.json matcher for this hook.
func (h *BranchPrefixHook) ToolMatcher() string { return "Bash" }

// Run implements Hook.
func (h *BranchPrefixHook) Run(_ context.Context, payload *Payload) Result {
	if h.prefix == "" {
		return Result{Decision: DecisionAllow}
	}

	command := payload.Command()
	if payload.ToolName != "Bash" || command == "" {
		return Result{Decision: DecisionAllow}
	}

	for _, pattern := range branchCreatePatterns {
		match := pattern.FindStringSubmatch(command)
		if match == nil {
			continue
		}
		branch := match[1]

		// git branch -d/-D deletes rather than creates
		if strings.HasPrefix(branch, "-d") || strings.HasPrefix(branch, "-D") {
			continue
		}

		if h.isAllowed(branch) {
			return Result{Decision: DecisionAllow}
		}

		if !strings.HasPrefix(branch, h.prefix) {
			return Result{Decision: DecisionBlock, Reason: h.blockReason(branch)}
		}
	}

	return Result{Decision: DecisionAllow}
}

func (h *BranchPrefixHook) isAllowed(branch string) bool {
	for _, allowed := range h.allowed {
		if branch == allowed {
			return true
		}
	}
	return false
}

func (h *BranchPrefixHook) blockReason(branch string) string {
	return fmt.Sprintf(`BLOCKED: Branch name must start with '%s'

Invalid branch: %s
Expected format: %s<type>/<description>

Examples:
  %sfeat/new-feature
  %sfix/bug-description
  %srefactor/cleanup

Use the manage-branch skill:
  /manage-branch
`, h.prefix, branch, h.prefix, h.prefix, h.prefix, h.prefix)
}
