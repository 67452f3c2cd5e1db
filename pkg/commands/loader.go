package commands

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// commandFileName is the markdown file that defines a command when commands
// are organized one per directory.
const commandFileName = "COMMAND.md"

// Loader discovers slash commands from configured directories.
type Loader struct {
	commandDirs []string
}

// Option is a function that configures a Loader
type Option func(*Loader) error

// WithCommandDirs sets custom command directories
func WithCommandDirs(dirs ...string) Option {
	return func(l *Loader) error {
		l.commandDirs = dirs
		return nil
	}
}

// WithDefaultDirs initializes with default command directories
func WithDefaultDirs() Option {
	return func(l *Loader) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		l.commandDirs = []string{
			"./.claude/commands",                          // Repo-local (highest precedence)
			filepath.Join(homeDir, ".claude", "commands"), // User-global
		}
		return nil
	}
}

// NewLoader creates a new command loader
func NewLoader(opts ...Option) (*Loader, error) {
	l := &Loader{}

	if len(opts) == 0 {
		if err := WithDefaultDirs()(l); err != nil {
			return nil, err
		}
	} else {
		for _, opt := range opts {
			if err := opt(l); err != nil {
				return nil, err
			}
		}
	}

	return l, nil
}

// Dirs returns the directories searched, in precedence order.
func (l *Loader) Dirs() []string {
	return l.commandDirs
}

// LoadCommands discovers commands from all configured directories. When the
// same command name appears in several directories the first directory wins.
// Files that fail to parse are collected into the returned error; discovery
// continues past them, so the returned map holds every valid command.
func (l *Loader) LoadCommands() (map[string]*Command, error) {
	commands := make(map[string]*Command)
	var result *multierror.Error

	for _, dir := range l.commandDirs {
		found, err := loadCommandsFromDir(dir)
		if err != nil {
			result = multierror.Append(result, err)
		}
		for _, cmd := range found {
			if _, exists := commands[cmd.Name]; !exists {
				commands[cmd.Name] = cmd
			}
		}
	}

	return commands, result.ErrorOrNil()
}

// loadCommandsFromDir loads commands from a single directory. A command is
// either a name.md file or a name/COMMAND.md directory.
func loadCommandsFromDir(dir string) ([]*Command, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		// Directory might not exist
		return nil, nil
	}

	var commands []*Command
	var result *multierror.Error

	for _, entry := range entries {
		var path string
		if entry.IsDir() {
			path = filepath.Join(dir, entry.Name(), commandFileName)
			if _, err := os.Stat(path); err != nil {
				// A plain directory, not a command
				continue
			}
		} else if strings.HasSuffix(entry.Name(), ".md") {
			path = filepath.Join(dir, entry.Name())
		} else {
			continue
		}

		cmd, err := parseCommandFile(path)
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "command file %s", path))
			continue
		}
		commands = append(commands, cmd)
	}

	return commands, result.ErrorOrNil()
}

// GetCommand returns a specific command by name.
func (l *Loader) GetCommand(name string) (*Command, error) {
	commands, _ := l.LoadCommands()

	cmd, exists := commands[name]
	if !exists {
		return nil, errors.Errorf("command '%s' not found in directories: %v", name, l.commandDirs)
	}

	return cmd, nil
}

// ListCommands returns all discovered commands sorted by name. Parse
// failures come back in the error alongside the commands that did load.
func (l *Loader) ListCommands() ([]*Command, error) {
	commands, err := l.LoadCommands()

	list := make([]*Command, 0, len(commands))
	for _, cmd := range commands {
		list = append(list, cmd)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})

	return list, err
}
