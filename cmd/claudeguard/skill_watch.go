package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mriley/claudeguard/pkg/logger"
	"github.com/mriley/claudeguard/pkg/presenter"
	"github.com/mriley/claudeguard/pkg/skills"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// SkillWatchConfig holds configuration for the skill watch command
type SkillWatchConfig struct {
	DebounceTime int
}

// NewSkillWatchConfig creates a new SkillWatchConfig with default values
func NewSkillWatchConfig() *SkillWatchConfig {
	return &SkillWatchConfig{
		DebounceTime: 500,
	}
}

// Validate validates the SkillWatchConfig and returns an error if invalid
func (c *SkillWatchConfig) Validate() error {
	if c.DebounceTime < 0 {
		return errors.Errorf("debounce time cannot be negative: %d", c.DebounceTime)
	}
	return nil
}

// lintEvent is a file change mapped to the skills directory it belongs to.
type lintEvent struct {
	Dir  string
	Path string
	Op   fsnotify.Op
	Time time.Time
}

var skillWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-lint skills whenever their files change",
	Long: `Watches every skills directory and re-runs lint when a SKILL.md, manifest.json
or other markdown file is written. Useful while authoring skills: problems
surface on save instead of at the next session start.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		config := getSkillWatchConfigFromFlags(cmd)
		if err := config.Validate(); err != nil {
			presenter.Error(err, "Invalid configuration")
			os.Exit(1)
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			presenter.Warning("\nCancellation requested, shutting down...")
			cancel()
		}()

		discovery, err := newDiscovery(ctx)
		if err != nil {
			presenter.Error(err, "Failed to initialize skill discovery")
			os.Exit(1)
		}

		runSkillWatch(ctx, discovery.Dirs(), config)
	},
}

func init() {
	defaults := NewSkillWatchConfig()
	skillWatchCmd.Flags().IntP("debounce", "d", defaults.DebounceTime, "Debounce time in milliseconds for file change events")

	skillCmd.AddCommand(skillWatchCmd)
}

// getSkillWatchConfigFromFlags extracts watch configuration from command flags
func getSkillWatchConfigFromFlags(cmd *cobra.Command) *SkillWatchConfig {
	config := NewSkillWatchConfig()

	if debounceTime, err := cmd.Flags().GetInt("debounce"); err == nil {
		config.DebounceTime = debounceTime
	}

	return config
}

func runSkillWatch(ctx context.Context, dirs []string, config *SkillWatchConfig) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		presenter.Error(err, "Failed to create file watcher")
		logger.G(ctx).WithError(err).Fatal("Failed to create file watcher")
	}
	defer watcher.Close()

	events := make(chan lintEvent)
	debouncedEvents := make(chan lintEvent)

	go debounceLintEvents(ctx, events, debouncedEvents, time.Duration(config.DebounceTime)*time.Millisecond)

	// Re-lint the owning skills directory on each debounced change
	go func() {
		for {
			select {
			case event, ok := <-debouncedEvents:
				if !ok {
					return
				}
				presenter.Info(fmt.Sprintf("Change detected: %s (%s)", event.Path, event.Op))
				if err := skills.Lint(event.Dir); err != nil {
					presenter.Error(err, fmt.Sprintf("Lint found problems in %s", event.Dir))
				} else {
					presenter.Success(fmt.Sprintf("%s lints clean", event.Dir))
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	// Filter raw watcher events down to skill files
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if !isSkillFile(event.Name) {
					continue
				}
				dir := owningSkillsDir(dirs, event.Name)
				if dir == "" {
					continue
				}
				events <- lintEvent{
					Dir:  dir,
					Path: event.Name,
					Op:   event.Op,
					Time: time.Now(),
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				presenter.Error(err, "File watcher error")
				logger.G(ctx).WithError(err).Error("Error watching files")
			case <-ctx.Done():
				return
			}
		}
	}()

	watching := 0
	for _, dir := range dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				logger.G(ctx).WithField("directory", path).Debug("Adding directory to watcher")
				return watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			// Skills directories are optional; watch whatever exists
			logger.G(ctx).WithError(err).WithField("directory", dir).Debug("Skipping skills directory")
			continue
		}
		watching++
	}
	if watching == 0 {
		presenter.Warning("No skills directories found to watch")
		return
	}

	presenter.Info("Watching for skill changes... Press Ctrl+C to stop")

	<-ctx.Done()
}

// Debounce lint events per skills directory so a burst of saves lints once
func debounceLintEvents(ctx context.Context, input <-chan lintEvent, output chan<- lintEvent, delay time.Duration) {
	var pending = make(map[string]*time.Timer)

	for {
		select {
		case event, ok := <-input:
			if !ok {
				for _, timer := range pending {
					timer.Stop()
				}
				return
			}
			if timer, exists := pending[event.Dir]; exists {
				timer.Stop()
				delete(pending, event.Dir)
			}

			eventCopy := event
			pending[event.Dir] = time.AfterFunc(delay, func() {
				select {
				case output <- eventCopy:
				case <-ctx.Done():
				}
			})
		case <-ctx.Done():
			for _, timer := range pending {
				timer.Stop()
			}
			return
		}
	}
}

// isSkillFile reports whether a change to path can affect lint results:
// markdown documents and the manifest count, editor droppings do not.
func isSkillFile(path string) bool {
	if filepath.Base(path) == skills.ManifestFileName {
		return true
	}
	return strings.EqualFold(filepath.Ext(path), ".md")
}

// owningSkillsDir maps an event path back to the watched skills directory
// containing it.
func owningSkillsDir(dirs []string, path string) string {
	for _, dir := range dirs {
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return dir
		}
	}
	return ""
}
