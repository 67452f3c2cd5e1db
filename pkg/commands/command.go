// Package commands loads Claude Code slash commands: markdown files with
// optional YAML frontmatter kept under .claude/commands directories. A
// command body may carry $1..$N and $ARGUMENTS placeholders that are
// expanded when the command is rendered.
package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// Command is a slash command loaded from a markdown file.
type Command struct {
	// Name identifies the command, derived from the filename (or the
	// directory name for COMMAND.md files).
	Name string

	// Description is the frontmatter description, if any.
	Description string

	// Instructions is the markdown body after the frontmatter.
	Instructions string

	// AllowedTools restricts which tools the command may use. Empty means
	// no restriction.
	AllowedTools []string

	// Model is an optional model override.
	Model string

	// ArgumentHint describes expected arguments, e.g. "[issue-number]".
	ArgumentHint string

	// FilePath is the file the command was loaded from.
	FilePath string
}

// commandConfig is the YAML frontmatter of a command file. Every field is
// optional; a file without frontmatter is entirely instructions.
type commandConfig struct {
	Description  string   `yaml:"description,omitempty"`
	AllowedTools []string `yaml:"allowed-tools,omitempty"`
	Model        string   `yaml:"model,omitempty"`
	ArgumentHint string   `yaml:"argument-hint,omitempty"`
}

// positionalArgPattern matches $1, $2, etc.
var positionalArgPattern = regexp.MustCompile(`\$(\d+)`)

// ExpandArguments substitutes argument placeholders in the command body.
// $1, $2, ... take positional arguments and $ARGUMENTS takes all arguments
// joined with spaces. A positional with no matching argument expands to the
// empty string, like shell parameter expansion.
func (c *Command) ExpandArguments(args []string) string {
	result := positionalArgPattern.ReplaceAllStringFunc(c.Instructions, func(match string) string {
		var num int
		fmt.Sscanf(match, "$%d", &num)
		if num > 0 && num <= len(args) {
			return args[num-1]
		}
		return ""
	})

	return strings.ReplaceAll(result, "$ARGUMENTS", strings.Join(args, " "))
}

// parseCommandFile loads a single command from a markdown file.
func parseCommandFile(path string) (*Command, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read command file")
	}
	return parseCommand(content, path)
}

// parseCommand parses command content. The content may open with a YAML
// frontmatter block delimited by "---" lines; everything after the block
// (or the whole content when there is none) is the command body.
func parseCommand(content []byte, path string) (*Command, error) {
	content = bytes.TrimLeft(content, " \t\r\n")

	var config commandConfig
	body := content

	if bytes.HasPrefix(content, []byte(frontmatterDelimiter)) {
		remaining := content[len(frontmatterDelimiter):]

		idx := bytes.Index(remaining, []byte("\n"+frontmatterDelimiter))
		if idx == -1 {
			return nil, errors.New("missing closing frontmatter delimiter")
		}

		if err := yaml.Unmarshal(remaining[:idx], &config); err != nil {
			return nil, errors.Wrap(err, "failed to parse command frontmatter")
		}

		body = bytes.TrimLeft(remaining[idx+len("\n"+frontmatterDelimiter):], "\r\n")
	}

	name := deriveCommandName(path)
	if name == "" {
		return nil, errors.New("could not derive command name from filename")
	}

	return &Command{
		Name:         name,
		Description:  config.Description,
		Instructions: strings.TrimSpace(string(body)),
		AllowedTools: config.AllowedTools,
		Model:        config.Model,
		ArgumentHint: config.ArgumentHint,
		FilePath:     path,
	}, nil
}

// deriveCommandName extracts a command name from the file path: COMMAND.md
// files take their parent directory's name, any other markdown file takes
// its filename without the .md extension.
func deriveCommandName(path string) string {
	base := filepath.Base(path)

	if strings.EqualFold(base, commandFileName) {
		return filepath.Base(filepath.Dir(path))
	}

	return strings.TrimSuffix(base, ".md")
}
