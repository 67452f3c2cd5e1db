// Package hooks implements the builtin Claude Code lifecycle hooks behind
// `claudeguard hook run`. Each hook observes or intercepts one lifecycle
// event (session start, prompt submit, tool calls, stop) to inject context,
// enforce guard rails, or fire notifications.
//
// Hooks must never block the caller because of their own infrastructure
// failures: missing binaries, unreadable repositories, or config problems
// degrade to fallback output or silence. Only a deliberate policy decision
// produces a blocking exit code.
package hooks

import (
	"context"

	"github.com/mriley/claudeguard/pkg/config"
)

// Event is the Claude Code lifecycle event a hook subscribes to. The values
// match the hook_event_name strings of the hook protocol and the event keys
// of settings.json.
type Event string

// Lifecycle events claudeguard registers handlers for
const (
	EventSessionStart     Event = "SessionStart"
	EventUserPromptSubmit Event = "UserPromptSubmit"
	EventPreToolUse       Event = "PreToolUse"
	EventPostToolUse      Event = "PostToolUse"
	EventStop             Event = "Stop"
)

// Decision is the outcome of a hook run. Block maps to exit code 2, which
// Claude Code treats as "stop the tool call and show the reason"; the other
// decisions map to exit code 0.
type Decision string

// Decision constants
const (
	DecisionAllow Decision = "allow"
	DecisionWarn  Decision = "warn"
	DecisionBlock Decision = "block"
)

// Result carries a hook's protocol output. Output is written verbatim to
// stdout (the channel Claude Code parses); Reason is written to stderr for
// the agent and user to read.
type Result struct {
	Decision Decision
	Reason   string
	Output   string
}

// Hook is a builtin lifecycle hook.
type Hook interface {
	// Name is the identifier used by `hook run <name>` and in settings.json.
	Name() string

	// Event is the lifecycle event the hook registers under.
	Event() Event

	// Description is a one-line summary shown by `hook list`.
	Description() string

	// Run executes the hook against the payload. Implementations fail open:
	// infrastructure errors degrade to an allow Result instead of surfacing.
	Run(ctx context.Context, payload *Payload) Result
}

// Matcher returns the tool-name matcher a hook should be registered with in
// settings.json, or "" for hooks that apply to every tool.
func Matcher(h Hook) string {
	switch h.Event() {
	case EventPreToolUse, EventPostToolUse:
		if m, ok := h.(interface{ ToolMatcher() string }); ok {
			return m.ToolMatcher()
		}
	}
	return ""
}

// Registry holds the builtin hooks in registration order.
type Registry struct {
	names []string
	hooks map[string]Hook
}

// NewRegistry builds the full builtin hook set from the configuration.
func NewRegistry(cfg config.Config) *Registry {
	r := &Registry{hooks: make(map[string]Hook)}
	r.Register(NewGitContextHook())
	r.Register(NewSkillActivationHook())
	r.Register(NewSkillUnloadHook())
	r.Register(NewTmuxNotifyHook())
	r.Register(NewSafeCommitHook())
	r.Register(NewBranchPrefixHook(cfg.Hooks.Branch))
	r.Register(NewSafeDestroyHook())
	r.Register(NewGitopsKubectlHook())
	r.Register(NewProtectFilesHook(cfg.Hooks.Protect))
	r.Register(NewAutoFormatHook(cfg.Hooks.Format))
	return r
}

// Register adds a hook, replacing any previous hook with the same name.
func (r *Registry) Register(h Hook) {
	if _, exists := r.hooks[h.Name()]; !exists {
		r.names = append(r.names, h.Name())
	}
	r.hooks[h.Name()] = h
}

// Get returns the hook registered under name.
func (r *Registry) Get(name string) (Hook, bool) {
	h, ok := r.hooks[name]
	return h, ok
}

// Names returns the hook names in registration order.
func (r *Registry) Names() []string {
	return r.names
}

// ByEvent returns the hooks registered for the given event, in order.
func (r *Registry) ByEvent(event Event) []Hook {
	var matched []Hook
	for _, name := range r.names {
		if h := r.hooks[name]; h.Event() == event {
			matched = append(matched, h)
		}
	}
	return matched
}
