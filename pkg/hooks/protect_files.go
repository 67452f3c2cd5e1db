package hooks

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/mriley/claudeguard/pkg/config"
)

type protectedPattern struct {
	re     *regexp.Regexp
	reason string
}

var protectedPatterns = []protectedPattern{
	// Environment files
	{regexp.MustCompile(`(?i)\.env($|\.)`), "Environment files contain secrets"},
	{regexp.MustCompile(`(?i)\.env\.local$`), "Local environment files contain secrets"},
	{regexp.MustCompile(`(?i)\.env\..*$`), "Environment files contain secrets"},
	// Lock files (auto-generated)
	{regexp.MustCompile(`(?i)package-lock\.json$`), "Lock file is auto-generated"},
	{regexp.MustCompile(`(?i)yarn\.lock$`), "Lock file is auto-generated"},
	{regexp.MustCompile(`(?i)pnpm-lock\.yaml$`), "Lock file is auto-generated"},
	{regexp.MustCompile(`(?i)Cargo\.lock$`), "Lock file is auto-generated"},
	{regexp.MustCompile(`(?i)poetry\.lock$`), "Lock file is auto-generated"},
	{regexp.MustCompile(`(?i)go\.sum$`), "Lock file is auto-generated"},
	{regexp.MustCompile(`(?i)Gemfile\.lock$`), "Lock file is auto-generated"},
	// Git internals
	{regexp.MustCompile(`(?i)\.git/`), "Git internal files should not be edited"},
	{regexp.MustCompile(`(?i)\.git$`), "Git internal files should not be edited"},
	// Other sensitive files
	{regexp.MustCompile(`(?i)\.ssh/`), "SSH keys are sensitive"},
	{regexp.MustCompile(`(?i)id_rsa`), "SSH private keys are sensitive"},
	{regexp.MustCompile(`(?i)\.pem$`), "Certificate files are sensitive"},
	{regexp.MustCompile(`(?i)\.key$`), "Key files are sensitive"},
}

// Exceptions allowed despite matching a protected pattern
var protectAllowPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\.env\.example$`),
	regexp.MustCompile(`(?i)\.env\.sample$`),
	regexp.MustCompile(`(?i)\.env\.template$`),
}

// ProtectFilesHook blocks edits to secrets, lock files, and VCS internals.
type ProtectFilesHook struct {
	patterns []protectedPattern
}

// NewProtectFilesHook creates the PreToolUse protected file guard. Invalid
// regular expressions from hooks.protect.extra_patterns are skipped.
func NewProtectFilesHook(cfg config.ProtectConfig) *ProtectFilesHook {
	patterns := make([]protectedPattern, len(protectedPatterns))
	copy(patterns, protectedPatterns)

	for _, raw := range cfg.ExtraPatterns {
		re, err := regexp.Compile("(?i)" + raw)
		if err != nil {
			continue
		}
		patterns = append(patterns, protectedPattern{re, "Protected by repository configuration"})
	}

	return &ProtectFilesHook{patterns: patterns}
}

// Name implements Hook.
func (h *ProtectFilesHook) Name() string { return "protect-files" }

// Event implements Hook.
func (h *ProtectFilesHook) Event() Event { return EventPreToolUse }

// Description implements Hook.
func (h *ProtectFilesHook) Description() string {
	return "Blocks edits to env files, lock files, and VCS internals"
}

// ToolMatcher returns the settings.json matcher for this hook.
func (h *ProtectFilesHook) ToolMatcher() string { return "Edit|Write" }

// Run checks both the basename and the full path, exceptions first.
func (h *ProtectFilesHook) Run(_ context.Context, payload *Payload) Result {
	filePath := payload.FilePath()
	if (payload.ToolName != "Edit" && payload.ToolName != "Write") || filePath == "" {
		return Result{Decision: DecisionAllow}
	}

	fileName := filepath.Base(filePath)

	for _, pattern := range protectAllowPatterns {
		if pattern.MatchString(fileName) || pattern.MatchString(filePath) {
			return Result{Decision: DecisionAllow}
		}
	}

	for _, pattern := range h.patterns {
		if pattern.re.MatchString(fileName) || pattern.re.MatchString(filePath) {
			return Result{Decision: DecisionBlock, Reason: protectBlockReason(filePath, pattern.reason)}
		}
	}

	return Result{Decision: DecisionAllow}
}

func protectBlockReason(filePath, reason string) string {
	return fmt.Sprintf(`BLOCKED: Protected file modification.

File: %s
Reason: %s

If you need to edit this file:
  1. Consider if it's truly necessary
  2. Edit manually outside of Claude
  3. Or request explicit override
`, filePath, reason)
}
