package acceptance

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHookInstallUninstall(t *testing.T) {
	dir := t.TempDir()
	home := t.TempDir()
	settingsPath := filepath.Join(dir, "settings.json")

	result := runClaudeguard(t, dir, home, "", nil, "hook", "install", "--settings", settingsPath)
	if result.ExitCode != 0 {
		t.Fatalf("hook install exited %d: %s", result.ExitCode, result.Stderr)
	}

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		t.Fatalf("settings.json was not written: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("settings.json is not valid JSON: %v", err)
	}
	if !strings.Contains(string(data), "hook run safe-commit") {
		t.Errorf("Expected settings.json to register safe-commit. Got: %s", data)
	}

	// hook show reports the installed entries
	result = runClaudeguard(t, dir, home, "", nil, "hook", "show", "--settings", settingsPath)
	if result.ExitCode != 0 {
		t.Fatalf("hook show exited %d: %s", result.ExitCode, result.Stderr)
	}
	if !strings.Contains(result.Stdout, "safe-commit") || !strings.Contains(result.Stdout, "yes") {
		t.Errorf("Expected hook show to report safe-commit as installed. Got: %s", result.Stdout)
	}

	// Uninstall strips every managed entry
	result = runClaudeguard(t, dir, home, "", nil, "hook", "uninstall", "--settings", settingsPath)
	if result.ExitCode != 0 {
		t.Fatalf("hook uninstall exited %d: %s", result.ExitCode, result.Stderr)
	}
	data, err = os.ReadFile(settingsPath)
	if err != nil {
		t.Fatalf("settings.json disappeared: %v", err)
	}
	if strings.Contains(string(data), "hook run") {
		t.Errorf("Expected uninstall to remove managed entries. Got: %s", data)
	}
}

func TestHookInstallDryRun(t *testing.T) {
	dir := t.TempDir()
	home := t.TempDir()
	settingsPath := filepath.Join(dir, "settings.json")

	result := runClaudeguard(t, dir, home, "", nil, "hook", "install", "--dry-run", "--settings", settingsPath)
	if result.ExitCode != 0 {
		t.Fatalf("hook install --dry-run exited %d: %s", result.ExitCode, result.Stderr)
	}

	if !strings.Contains(result.Stdout, "+") || !strings.Contains(result.Stdout, "hook run") {
		t.Errorf("Expected a diff with added hook entries. Got: %s", result.Stdout)
	}
	if _, err := os.Stat(settingsPath); !os.IsNotExist(err) {
		t.Error("Expected --dry-run to leave settings.json unwritten")
	}
}

func TestHookInstallPreservesForeignEntries(t *testing.T) {
	dir := t.TempDir()
	home := t.TempDir()
	settingsPath := filepath.Join(dir, "settings.json")

	existing := `{
  "model": "opus",
  "hooks": {
    "PreToolUse": [
      {"matcher": "Bash", "hooks": [{"type": "command", "command": "other-tool inject"}]}
    ]
  }
}`
	if err := os.WriteFile(settingsPath, []byte(existing), 0o644); err != nil {
		t.Fatalf("Failed to seed settings.json: %v", err)
	}

	result := runClaudeguard(t, dir, home, "", nil, "hook", "install", "--settings", settingsPath)
	if result.ExitCode != 0 {
		t.Fatalf("hook install exited %d: %s", result.ExitCode, result.Stderr)
	}

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		t.Fatalf("Failed to read settings.json: %v", err)
	}
	for _, want := range []string{`"model": "opus"`, "other-tool inject", "hook run protect-files"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("Expected settings.json to contain %q. Got: %s", want, data)
		}
	}

	// A backup of the pre-install file sits next to it
	backups, err := filepath.Glob(settingsPath + ".bak.*")
	if err != nil || len(backups) == 0 {
		t.Errorf("Expected a timestamped backup next to settings.json, found %v", backups)
	}

	// Uninstall keeps the foreign entry
	result = runClaudeguard(t, dir, home, "", nil, "hook", "uninstall", "--settings", settingsPath)
	if result.ExitCode != 0 {
		t.Fatalf("hook uninstall exited %d: %s", result.ExitCode, result.Stderr)
	}
	data, _ = os.ReadFile(settingsPath)
	if !strings.Contains(string(data), "other-tool inject") {
		t.Errorf("Expected uninstall to keep foreign entries. Got: %s", data)
	}
	if strings.Contains(string(data), "hook run") {
		t.Errorf("Expected uninstall to drop managed entries. Got: %s", data)
	}
}
