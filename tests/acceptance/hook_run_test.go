package acceptance

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHookRunProtocol(t *testing.T) {
	tests := []struct {
		name       string
		hook       string
		stdin      string
		env        []string
		wantExit   int
		wantStdout string
		wantStderr string
	}{
		{
			name:       "skill activation prompt emits the check block",
			hook:       "skill-activation-prompt",
			stdin:      `{"hook_event_name":"UserPromptSubmit","prompt":"commit my changes"}`,
			wantExit:   0,
			wantStdout: "<skill-check>",
		},
		{
			name:       "git context falls back outside a repository",
			hook:       "git-context",
			stdin:      `{"hook_event_name":"SessionStart","source":"startup"}`,
			wantExit:   0,
			wantStdout: "Not in a git repository",
		},
		{
			name:       "tmux notify prints empty JSON outside tmux",
			hook:       "tmux-notify",
			stdin:      `{"hook_event_name":"Stop"}`,
			env:        []string{"TMUX="},
			wantExit:   0,
			wantStdout: "{}",
		},
		{
			name:       "safe commit warns on stderr and allows",
			hook:       "safe-commit",
			stdin:      `{"tool_name":"Bash","tool_input":{"command":"git commit -m 'quick fix'"}}`,
			wantExit:   0,
			wantStderr: "safe-commit skill",
		},
		{
			name:       "protect files blocks env file edits",
			hook:       "protect-files",
			stdin:      `{"tool_name":"Edit","tool_input":{"file_path":"/repo/.env"}}`,
			wantExit:   2,
			wantStderr: "BLOCKED: Protected file modification.",
		},
		{
			name:       "unknown hook allows with a warning",
			hook:       "brand-new-hook",
			stdin:      `{}`,
			wantExit:   0,
			wantStderr: "unknown hook",
		},
		{
			name:       "malformed payload exits 1",
			hook:       "safe-commit",
			stdin:      `{"tool_name": "Bash",`,
			wantExit:   1,
			wantStderr: "Error parsing JSON input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := runClaudeguard(t, t.TempDir(), t.TempDir(), tt.stdin, tt.env, "hook", "run", tt.hook)

			if result.ExitCode != tt.wantExit {
				t.Errorf("Expected exit %d, got %d (stderr: %s)", tt.wantExit, result.ExitCode, result.Stderr)
			}
			if tt.wantStdout != "" && !strings.Contains(result.Stdout, tt.wantStdout) {
				t.Errorf("Expected stdout to contain %q, got: %s", tt.wantStdout, result.Stdout)
			}
			if tt.wantStderr != "" && !strings.Contains(result.Stderr, tt.wantStderr) {
				t.Errorf("Expected stderr to contain %q, got: %s", tt.wantStderr, result.Stderr)
			}
		})
	}
}

func TestHookRunKillSwitch(t *testing.T) {
	// The kill switch short-circuits before stdin is even read
	result := runClaudeguard(t, t.TempDir(), t.TempDir(), `{"tool_name":"Edit","tool_input":{"file_path":"/repo/.env"}}`,
		[]string{"CLAUDEGUARD_DISABLED=1"}, "hook", "run", "protect-files")

	if result.ExitCode != 0 {
		t.Errorf("Expected exit 0 with kill switch set, got %d", result.ExitCode)
	}
	if result.Stdout != "" || result.Stderr != "" {
		t.Errorf("Expected no output with kill switch set, got stdout=%q stderr=%q", result.Stdout, result.Stderr)
	}
}

func TestHookRunDisabledViaConfig(t *testing.T) {
	dir := t.TempDir()
	home := t.TempDir()

	configDir := filepath.Join(dir, ".claudeguard")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	configYAML := "hooks:\n  disabled:\n    - protect-files\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configYAML), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	result := runClaudeguard(t, dir, home, `{"tool_name":"Edit","tool_input":{"file_path":"/repo/.env"}}`,
		nil, "hook", "run", "protect-files")

	if result.ExitCode != 0 {
		t.Errorf("Expected disabled hook to exit 0, got %d (stderr: %s)", result.ExitCode, result.Stderr)
	}
}

func TestHookList(t *testing.T) {
	result := runClaudeguard(t, t.TempDir(), t.TempDir(), "", nil, "hook", "list")

	if result.ExitCode != 0 {
		t.Fatalf("hook list exited %d: %s", result.ExitCode, result.Stderr)
	}

	for _, name := range []string{"git-context", "skill-activation-prompt", "safe-commit", "protect-files", "auto-format"} {
		if !strings.Contains(result.Stdout, name) {
			t.Errorf("Expected hook list to mention %s. Got: %s", name, result.Stdout)
		}
	}
}
