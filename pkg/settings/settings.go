// Package settings reads and edits Claude Code settings.json files. It
// recognizes the hook entries claudeguard manages by their command line and
// can install, refresh, or remove them while leaving every other setting
// untouched.
package settings

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ManagedMarker identifies hook commands installed by claudeguard. Any
// entry whose command contains it is fair game for install/uninstall.
const ManagedMarker = "claudeguard hook run "

// HookEntry is a single hook command in Claude Code's settings format.
type HookEntry struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Timeout int    `json:"timeout,omitempty"`
}

// HookGroup pairs an optional tool matcher with the hook entries it fires.
type HookGroup struct {
	Matcher string      `json:"matcher,omitempty"`
	Hooks   []HookEntry `json:"hooks"`
}

// HooksConfig is the hooks section of settings.json, one field per
// lifecycle event.
type HooksConfig struct {
	PreToolUse       []HookGroup `json:"PreToolUse,omitempty"`
	PostToolUse      []HookGroup `json:"PostToolUse,omitempty"`
	UserPromptSubmit []HookGroup `json:"UserPromptSubmit,omitempty"`
	Notification     []HookGroup `json:"Notification,omitempty"`
	Stop             []HookGroup `json:"Stop,omitempty"`
	SubagentStop     []HookGroup `json:"SubagentStop,omitempty"`
	PreCompact       []HookGroup `json:"PreCompact,omitempty"`
	SessionStart     []HookGroup `json:"SessionStart,omitempty"`
	SessionEnd       []HookGroup `json:"SessionEnd,omitempty"`
}

// EventNames returns the hook event names in canonical order.
func EventNames() []string {
	return []string{
		"PreToolUse", "PostToolUse",
		"UserPromptSubmit", "Notification",
		"Stop", "SubagentStop", "PreCompact",
		"SessionStart", "SessionEnd",
	}
}

// eventGroups maps each event name to its field.
func (c *HooksConfig) eventGroups() map[string]*[]HookGroup {
	return map[string]*[]HookGroup{
		"PreToolUse":       &c.PreToolUse,
		"PostToolUse":      &c.PostToolUse,
		"UserPromptSubmit": &c.UserPromptSubmit,
		"Notification":     &c.Notification,
		"Stop":             &c.Stop,
		"SubagentStop":     &c.SubagentStop,
		"PreCompact":       &c.PreCompact,
		"SessionStart":     &c.SessionStart,
		"SessionEnd":       &c.SessionEnd,
	}
}

// Groups returns the hook groups for an event, or nil for unknown events.
func (c *HooksConfig) Groups(event string) []HookGroup {
	ptr := c.eventGroups()[event]
	if ptr == nil {
		return nil
	}
	return *ptr
}

// SetGroups replaces the hook groups for an event. Unknown events are
// ignored.
func (c *HooksConfig) SetGroups(event string, groups []HookGroup) {
	ptr := c.eventGroups()[event]
	if ptr == nil {
		return
	}
	*ptr = groups
}

// IsManaged reports whether a hook entry was installed by claudeguard.
func IsManaged(entry HookEntry) bool {
	return strings.Contains(entry.Command, ManagedMarker)
}

// managedHookName extracts the hook name from a managed command line, e.g.
// "/usr/local/bin/claudeguard hook run git-context" yields "git-context".
func managedHookName(command string) string {
	idx := strings.Index(command, ManagedMarker)
	if idx == -1 {
		return ""
	}
	fields := strings.Fields(command[idx+len(ManagedMarker):])
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// DefaultPath returns the user-global settings path,
// ~/.claude/settings.json.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user home directory")
	}
	return filepath.Join(homeDir, ".claude", "settings.json"), nil
}

// LocalPath returns the repository-local settings path.
func LocalPath() string {
	return filepath.Join(".claude", "settings.json")
}
