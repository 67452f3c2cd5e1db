package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/mriley/claudeguard/pkg/audit"
	"github.com/mriley/claudeguard/pkg/config"
	"github.com/mriley/claudeguard/pkg/hooks"
	"github.com/mriley/claudeguard/pkg/presenter"
	"github.com/mriley/claudeguard/pkg/settings"
	"github.com/mriley/claudeguard/pkg/skills"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the environment claudeguard's hooks run in",
	Long: `Verifies that the tools the hooks shell out to are installed, that
settings.json parses and has the hooks registered, that the skill corpus
lints clean and that the audit log is writable. Missing optional tools are
reported but only real problems make doctor exit nonzero.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := loadConfig(ctx)

		var result *multierror.Error
		result = multierror.Append(result, checkTools(cfg))
		result = multierror.Append(result, checkSettings(cfg))
		result = multierror.Append(result, checkSkills(ctx))
		result = multierror.Append(result, checkAudit(cfg))

		presenter.Separator()
		if err := result.ErrorOrNil(); err != nil {
			presenter.Error(err, "Doctor found problems")
			os.Exit(1)
		}
		presenter.Success("Everything looks good")
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// checkTools probes PATH for the commands the hooks shell out to. Only git
// is a hard requirement; the notification tools and formatters degrade to
// no-ops when absent.
func checkTools(cfg config.Config) error {
	presenter.Section("Tools")

	var result *multierror.Error

	if path, err := exec.LookPath("git"); err == nil {
		presenter.Success(fmt.Sprintf("git found at %s", path))
	} else {
		presenter.Warning("git not found on PATH")
		result = multierror.Append(result, errors.New("git is required by the git-context and commit guard hooks"))
	}

	optional := []struct{ name, note string }{
		{"tmux", "tmux-notify stays silent without it"},
		{"notify-send", "desktop notifications are skipped without it"},
	}
	for _, tool := range optional {
		if path, err := exec.LookPath(tool.name); err == nil {
			presenter.Success(fmt.Sprintf("%s found at %s", tool.name, path))
		} else {
			presenter.Info(fmt.Sprintf("%s not found on PATH; %s", tool.name, tool.note))
		}
	}

	for _, name := range hooks.NewAutoFormatHook(cfg.Hooks.Format).Formatters() {
		if path, err := exec.LookPath(name); err == nil {
			presenter.Success(fmt.Sprintf("formatter %s found at %s", name, path))
		} else {
			presenter.Info(fmt.Sprintf("formatter %s not found on PATH; auto-format skips its extensions", name))
		}
	}

	return result.ErrorOrNil()
}

// checkSettings parses the settings files and reports how many builtin
// hooks each has installed. A file that fails to parse is a real problem;
// missing hooks only warrant a hint.
func checkSettings(cfg config.Config) error {
	presenter.Section("Settings")

	var result *multierror.Error
	registry := hooks.NewRegistry(cfg)

	paths := make([]string, 0, 2)
	if path, err := settings.DefaultPath(); err == nil {
		paths = append(paths, path)
	} else {
		result = multierror.Append(result, errors.Wrap(err, "cannot locate user settings"))
	}
	if _, err := os.Stat(settings.LocalPath()); err == nil {
		paths = append(paths, settings.LocalPath())
	}

	for _, path := range paths {
		f, err := settings.Load(path)
		if err != nil {
			presenter.Warning(fmt.Sprintf("%s does not parse", path))
			result = multierror.Append(result, err)
			continue
		}

		installed := f.ManagedHookNames()
		switch {
		case len(installed) == 0:
			presenter.Info(fmt.Sprintf("%s has no claudeguard hooks; run: claudeguard hook install", path))
		case len(installed) < len(registry.Names()):
			presenter.Warning(fmt.Sprintf("%s has %d of %d hooks installed; run: claudeguard hook install", path, len(installed), len(registry.Names())))
		default:
			presenter.Success(fmt.Sprintf("%s has all %d hooks installed", path, len(installed)))
		}
	}

	return result.ErrorOrNil()
}

// checkSkills lints every skills directory that exists.
func checkSkills(ctx context.Context) error {
	presenter.Section("Skills")

	discovery, err := newDiscovery(ctx)
	if err != nil {
		presenter.Warning("Skill discovery unavailable")
		return err
	}

	var result *multierror.Error
	for _, dir := range discovery.Dirs() {
		if _, err := os.Stat(dir); err != nil {
			presenter.Info(fmt.Sprintf("%s does not exist", dir))
			continue
		}
		if err := skills.Lint(dir); err != nil {
			presenter.Warning(fmt.Sprintf("%s has lint problems", dir))
			result = multierror.Append(result, err)
			continue
		}
		presenter.Success(fmt.Sprintf("%s lints clean", dir))
	}

	return result.ErrorOrNil()
}

// checkAudit verifies the audit log path accepts appends.
func checkAudit(cfg config.Config) error {
	presenter.Section("Audit")

	if cfg.Audit.Disabled {
		presenter.Info("Audit log disabled in config")
		return nil
	}

	store, err := audit.NewStore(cfg.Audit.Path)
	if err != nil {
		presenter.Warning("Audit log location cannot be determined")
		return errors.Wrap(err, "audit log")
	}
	path := store.Path()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		presenter.Warning(fmt.Sprintf("%s is not writable", path))
		return errors.Wrap(err, "audit log directory")
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		presenter.Warning(fmt.Sprintf("%s is not writable", path))
		return errors.Wrap(err, "audit log")
	}
	file.Close()

	presenter.Success(fmt.Sprintf("%s is writable", path))
	return nil
}
