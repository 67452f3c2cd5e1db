package acceptance

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCommandListAndShow(t *testing.T) {
	dir := t.TempDir()
	home := t.TempDir()

	commandsDir := filepath.Join(dir, ".claude", "commands")
	if err := os.MkdirAll(commandsDir, 0o755); err != nil {
		t.Fatalf("Failed to create commands dir: %v", err)
	}

	reviewPR := `---
description: Review a pull request
argument-hint: "[pr-number]"
---

Review PR $1 carefully. Full invocation: $ARGUMENTS
`
	if err := os.WriteFile(filepath.Join(commandsDir, "review-pr.md"), []byte(reviewPR), 0o644); err != nil {
		t.Fatalf("Failed to write command file: %v", err)
	}

	result := runClaudeguard(t, dir, home, "", nil, "command", "list")
	if result.ExitCode != 0 {
		t.Fatalf("command list exited %d: %s", result.ExitCode, result.Stderr)
	}
	if !strings.Contains(result.Stdout, "review-pr") || !strings.Contains(result.Stdout, "Review a pull request") {
		t.Errorf("Expected command list to show review-pr. Got: %s", result.Stdout)
	}

	result = runClaudeguard(t, dir, home, "", nil, "command", "show", "review-pr", "42", "urgent")
	if result.ExitCode != 0 {
		t.Fatalf("command show exited %d: %s", result.ExitCode, result.Stderr)
	}
	if !strings.Contains(result.Stdout, "Review PR 42 carefully.") {
		t.Errorf("Expected $1 to expand to 42. Got: %s", result.Stdout)
	}
	if !strings.Contains(result.Stdout, "Full invocation: 42 urgent") {
		t.Errorf("Expected $ARGUMENTS to expand to the full tail. Got: %s", result.Stdout)
	}
}

func TestCommandShowUnknown(t *testing.T) {
	result := runClaudeguard(t, t.TempDir(), t.TempDir(), "", nil, "command", "show", "no-such-command")
	if result.ExitCode == 0 {
		t.Error("Expected command show to fail for an unknown command")
	}
	if !strings.Contains(result.Stderr, "not found") {
		t.Errorf("Expected a not-found error. Got: %s", result.Stderr)
	}
}
