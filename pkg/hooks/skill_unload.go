package hooks

import (
	"bytes"
	"context"
	"encoding/json"
)

const skillUnloadMessage = "<skill-unload>Skills from this task are now unloaded.</skill-unload>"

// SkillUnloadHook tells the host that task-scoped skills no longer apply
// once the agent stops.
type SkillUnloadHook struct{}

// NewSkillUnloadHook creates the Stop skill unload hook.
func NewSkillUnloadHook() *SkillUnloadHook {
	return &SkillUnloadHook{}
}

// Name implements Hook.
func (h *SkillUnloadHook) Name() string { return "skill-unload" }

// Event implements Hook.
func (h *SkillUnloadHook) Event() Event { return EventStop }

// Description implements Hook.
func (h *SkillUnloadHook) Description() string {
	return "Marks task skills as unloaded when the agent stops"
}

// Run emits the unload system message. The encoder has HTML escaping off so
// the angle brackets reach the host unescaped.
func (h *SkillUnloadHook) Run(_ context.Context, _ *Payload) Result {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(map[string]string{"systemMessage": skillUnloadMessage}); err != nil {
		return Result{Decision: DecisionAllow}
	}
	return Result{Decision: DecisionAllow, Output: buf.String()}
}
