package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventNames(t *testing.T) {
	names := EventNames()
	require.Len(t, names, 9)
	assert.Equal(t, "PreToolUse", names[0])
	assert.Equal(t, "SessionEnd", names[8])
}

func TestHooksConfig_Groups(t *testing.T) {
	var config HooksConfig

	group := HookGroup{
		Matcher: "Bash",
		Hooks:   []HookEntry{{Type: "command", Command: "claudeguard hook run safe-commit"}},
	}

	for _, event := range EventNames() {
		config.SetGroups(event, []HookGroup{group})
		got := config.Groups(event)
		require.Len(t, got, 1, "event %s", event)
		assert.Equal(t, group, got[0])
		config.SetGroups(event, nil)
	}

	// Unknown events neither panic nor store anything
	config.SetGroups("NoSuchEvent", []HookGroup{group})
	assert.Nil(t, config.Groups("NoSuchEvent"))
}

func TestIsManaged(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    bool
	}{
		{
			name:    "bare binary",
			command: "claudeguard hook run git-context",
			want:    true,
		},
		{
			name:    "absolute path",
			command: "/usr/local/bin/claudeguard hook run safe-commit",
			want:    true,
		},
		{
			name:    "foreign command",
			command: "ao inject --apply-decay",
			want:    false,
		},
		{
			name:    "other claudeguard subcommand",
			command: "claudeguard skill lint",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsManaged(HookEntry{Type: "command", Command: tt.command}))
		})
	}
}

func TestManagedHookName(t *testing.T) {
	tests := []struct {
		command string
		want    string
	}{
		{"claudeguard hook run git-context", "git-context"},
		{"/usr/local/bin/claudeguard hook run safe-commit", "safe-commit"},
		{"claudeguard hook run auto-format --verbose", "auto-format"},
		{"some-other-tool --flag", ""},
		{"claudeguard hook run ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			assert.Equal(t, tt.want, managedHookName(tt.command))
		})
	}
}
