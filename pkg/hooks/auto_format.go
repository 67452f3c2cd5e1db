package hooks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mriley/claudeguard/pkg/config"
)

type formatterCmd struct {
	name string
	args []string
}

// Builtin extension to formatter table
var defaultFormatters = map[string]formatterCmd{
	".ts":   {"npx", []string{"prettier", "--write"}},
	".tsx":  {"npx", []string{"prettier", "--write"}},
	".js":   {"npx", []string{"prettier", "--write"}},
	".jsx":  {"npx", []string{"prettier", "--write"}},
	".json": {"npx", []string{"prettier", "--write"}},
	".css":  {"npx", []string{"prettier", "--write"}},
	".scss": {"npx", []string{"prettier", "--write"}},
	".md":   {"npx", []string{"prettier", "--write"}},
	".yaml": {"npx", []string{"prettier", "--write"}},
	".yml":  {"npx", []string{"prettier", "--write"}},
	".go":   {"gofmt", []string{"-w"}},
	".py":   {"black", nil},
}

// Paths never formatted
var formatSkipSubstrings = []string{
	"node_modules",
	".git",
	"vendor",
	"__pycache__",
	".next",
	"dist",
	"build",
}

// AutoFormatHook runs the matching formatter after a file edit. Formatting
// is best-effort: missing files, missing formatters, and formatter failures
// never block, and the hook always allows.
type AutoFormatHook struct {
	timeout    time.Duration
	formatters map[string]formatterCmd
	lookPath   func(string) (string, error)
	run        func(ctx context.Context, name string, args ...string) (stderr string, err error)
}

// NewAutoFormatHook creates the PostToolUse formatter hook. Entries in
// hooks.format.extra override or extend the builtin table; values are a
// command line split on whitespace, keyed by extension.
func NewAutoFormatHook(cfg config.FormatConfig) *AutoFormatHook {
	formatters := make(map[string]formatterCmd, len(defaultFormatters))
	for ext, f := range defaultFormatters {
		formatters[ext] = f
	}

	for ext, commandLine := range cfg.Extra {
		fields := strings.Fields(commandLine)
		if len(fields) == 0 {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		formatters[strings.ToLower(ext)] = formatterCmd{fields[0], fields[1:]}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = config.DefaultFormatTimeout
	}

	return &AutoFormatHook{
		timeout:    timeout,
		formatters: formatters,
		lookPath:   exec.LookPath,
		run:        runFormatter,
	}
}

func runFormatter(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stderr.String(), err
}

// Name implements Hook.
func (h *AutoFormatHook) Name() string { return "auto-format" }

// Event implements Hook.
func (h *AutoFormatHook) Event() Event { return EventPostToolUse }

// Description implements Hook.
func (h *AutoFormatHook) Description() string {
	return "Formats edited files with the matching formatter"
}

// ToolMatcher returns the settings.json matcher for this hook.
func (h *AutoFormatHook) ToolMatcher() string { return "Edit|Write" }

// Formatters returns the distinct formatter commands the hook may invoke,
// sorted. Used by doctor to report which ones are installed.
func (h *AutoFormatHook) Formatters() []string {
	seen := make(map[string]bool)
	var names []string
	for _, f := range h.formatters {
		if !seen[f.name] {
			seen[f.name] = true
			names = append(names, f.name)
		}
	}
	sort.Strings(names)
	return names
}

// Run implements Hook.
func (h *AutoFormatHook) Run(ctx context.Context, payload *Payload) Result {
	filePath := payload.FilePath()
	if (payload.ToolName != "Edit" && payload.ToolName != "Write") || filePath == "" {
		return Result{Decision: DecisionAllow}
	}

	for _, skip := range formatSkipSubstrings {
		if strings.Contains(filePath, skip) {
			return Result{Decision: DecisionAllow}
		}
	}

	if _, err := os.Stat(filePath); err != nil {
		return Result{Decision: DecisionAllow}
	}

	formatter, ok := h.formatters[strings.ToLower(filepath.Ext(filePath))]
	if !ok {
		return Result{Decision: DecisionAllow}
	}

	// Formatter not installed, skip silently
	if _, err := h.lookPath(formatter.name); err != nil {
		return Result{Decision: DecisionAllow}
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	args := append(append([]string{}, formatter.args...), filePath)
	stderr, err := h.run(ctx, formatter.name, args...)
	switch {
	case err == nil:
		return Result{Decision: DecisionAllow, Output: fmt.Sprintf("Formatted: %s\n", filePath)}
	case ctx.Err() == context.DeadlineExceeded:
		return Result{Decision: DecisionWarn, Reason: fmt.Sprintf("Format timeout: %s\n", filePath)}
	default:
		return Result{Decision: DecisionWarn, Reason: fmt.Sprintf("Format warning: %s\n", strings.TrimRight(stderr, "\n"))}
	}
}
