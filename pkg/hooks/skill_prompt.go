package hooks

import "context"

// skillActivationBlock is printed verbatim on every prompt submission. The
// markers are load-bearing: the host strips the block once acted on, and
// downstream tooling greps for them.
const skillActivationBlock = `<skill-check>
Before acting on this prompt, review the skills under .claude/skills and
load any whose description matches the task. Skills define the required
workflow for commits, branch management, destructive commands, and
deployments. If no skill applies, proceed normally.
</skill-check>
`

// SkillActivationHook reminds the agent to check for applicable skills
// before acting on a prompt.
type SkillActivationHook struct{}

// NewSkillActivationHook creates the UserPromptSubmit skill reminder hook.
func NewSkillActivationHook() *SkillActivationHook {
	return &SkillActivationHook{}
}

// Name implements Hook.
func (h *SkillActivationHook) Name() string { return "skill-activation-prompt" }

// Event implements Hook.
func (h *SkillActivationHook) Event() Event { return EventUserPromptSubmit }

// Description implements Hook.
func (h *SkillActivationHook) Description() string {
	return "Reminds the agent to load matching skills before acting on a prompt"
}

// Run prints the activation block. No input parsing, no interpolation; the
// output is byte-identical on every invocation.
func (h *SkillActivationHook) Run(_ context.Context, _ *Payload) Result {
	return Result{Decision: DecisionAllow, Output: skillActivationBlock}
}
