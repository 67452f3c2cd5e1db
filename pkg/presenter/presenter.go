// Package presenter renders user-facing CLI output: errors, successes,
// warnings, informational lines and section headers, with color handling
// and a quiet mode. Hook protocol output never goes through here; hooks
// write their stdout themselves.
package presenter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// ColorMode controls whether output is colorized.
type ColorMode int

const (
	// ColorAuto defers to the color package's terminal detection.
	ColorAuto ColorMode = iota
	// ColorAlways forces color on.
	ColorAlways
	// ColorNever forces color off.
	ColorNever
)

// Color styles consult color.NoColor at print time, so these are safe to
// build once.
var (
	errStyle     = color.New(color.FgRed, color.Bold)
	successStyle = color.New(color.FgGreen, color.Bold)
	warnStyle    = color.New(color.FgYellow, color.Bold)
	headerStyle  = color.New(color.Bold)
	faintStyle   = color.New(color.Faint)
)

// TerminalPresenter writes formatted messages to a terminal. Errors go to
// errorOutput, everything else to output. Quiet mode silences everything
// except errors.
type TerminalPresenter struct {
	output      io.Writer
	errorOutput io.Writer
	colorMode   ColorMode
	quiet       bool
}

// New returns a presenter on stdout/stderr with color mode detected from
// the environment.
func New() *TerminalPresenter {
	return NewWithOptions(os.Stdout, os.Stderr, detectColorMode())
}

// NewWithOptions returns a presenter with explicit writers and color mode.
func NewWithOptions(output, errorOutput io.Writer, colorMode ColorMode) *TerminalPresenter {
	switch colorMode {
	case ColorAlways:
		color.NoColor = false
	case ColorNever:
		color.NoColor = true
	case ColorAuto:
		// the color package detects terminals on its own
	}

	return &TerminalPresenter{
		output:      output,
		errorOutput: errorOutput,
		colorMode:   colorMode,
	}
}

// detectColorMode honors NO_COLOR and CLAUDEGUARD_COLOR.
func detectColorMode() ColorMode {
	if os.Getenv("NO_COLOR") != "" {
		return ColorNever
	}

	switch os.Getenv("CLAUDEGUARD_COLOR") {
	case "always", "force":
		return ColorAlways
	case "never", "off":
		return ColorNever
	default:
		return ColorAuto
	}
}

// Error writes err to the error stream, prefixed with context when given.
// Not silenced by quiet mode.
func (p *TerminalPresenter) Error(err error, context string) {
	if err == nil {
		return
	}
	if context != "" {
		errStyle.Fprintf(p.errorOutput, "[ERROR] %s: %v\n", context, err)
		return
	}
	errStyle.Fprintf(p.errorOutput, "[ERROR] %v\n", err)
}

// Success writes a checkmarked message.
func (p *TerminalPresenter) Success(message string) {
	if p.quiet {
		return
	}
	successStyle.Fprintf(p.output, "✓ %s\n", message)
}

// Warning writes a warning-marked message.
func (p *TerminalPresenter) Warning(message string) {
	if p.quiet {
		return
	}
	warnStyle.Fprintf(p.output, "⚠ %s\n", message)
}

// Info writes a plain message with no prefix.
func (p *TerminalPresenter) Info(message string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.output, "%s\n", message)
}

// Section writes a bold title with a dashed underline of the same width.
func (p *TerminalPresenter) Section(title string) {
	if p.quiet {
		return
	}
	headerStyle.Fprintf(p.output, "%s\n", title)
	headerStyle.Fprintf(p.output, "%s\n", strings.Repeat("-", len(title)))
}

// Separator writes a faint horizontal rule.
func (p *TerminalPresenter) Separator() {
	if p.quiet {
		return
	}
	faintStyle.Fprintf(p.output, "%s\n", strings.Repeat("-", 60))
}

// SetQuiet toggles quiet mode.
func (p *TerminalPresenter) SetQuiet(quiet bool) {
	p.quiet = quiet
}

// IsQuiet reports whether quiet mode is on.
func (p *TerminalPresenter) IsQuiet() bool {
	return p.quiet
}

// Package-level presenter shared by the subcommands.
var defaultPresenter = New()

// Error writes an error through the default presenter.
func Error(err error, context string) {
	defaultPresenter.Error(err, context)
}

// Success writes a success message through the default presenter.
func Success(message string) {
	defaultPresenter.Success(message)
}

// Warning writes a warning through the default presenter.
func Warning(message string) {
	defaultPresenter.Warning(message)
}

// Info writes an informational message through the default presenter.
func Info(message string) {
	defaultPresenter.Info(message)
}

// Section writes a section header through the default presenter.
func Section(title string) {
	defaultPresenter.Section(title)
}

// Separator writes a horizontal rule through the default presenter.
func Separator() {
	defaultPresenter.Separator()
}

// SetQuiet toggles quiet mode on the default presenter.
func SetQuiet(quiet bool) {
	defaultPresenter.SetQuiet(quiet)
}

// IsQuiet reports whether the default presenter is quiet.
func IsQuiet() bool {
	return defaultPresenter.IsQuiet()
}
