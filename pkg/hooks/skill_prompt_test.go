package hooks

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkillActivation_ContainsMarkers(t *testing.T) {
	hook := NewSkillActivationHook()

	result := hook.Run(context.Background(), &Payload{Prompt: "fix the login bug"})

	assert.Equal(t, DecisionAllow, result.Decision)
	assert.True(t, strings.HasPrefix(result.Output, "<skill-check>"))
	assert.Contains(t, result.Output, "</skill-check>")
}

func TestSkillActivation_StaticAcrossInvocations(t *testing.T) {
	hook := NewSkillActivationHook()

	first := hook.Run(context.Background(), &Payload{Prompt: "delete everything"})
	second := hook.Run(context.Background(), &Payload{Prompt: "write a haiku"})
	third := hook.Run(context.Background(), &Payload{})

	assert.Equal(t, first.Output, second.Output)
	assert.Equal(t, first.Output, third.Output)
}
