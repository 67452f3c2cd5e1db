package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/mriley/claudeguard/pkg/hooks"
	"github.com/mriley/claudeguard/pkg/presenter"
	"github.com/mriley/claudeguard/pkg/settings"
	"github.com/spf13/cobra"
)

var hookInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Register the builtin hooks in Claude Code's settings.json",
	Long: `Writes "claudeguard hook run <name>" entries for every builtin hook into
settings.json. Stale managed entries are replaced; entries installed by
other tools are preserved byte-for-byte. The previous file is kept as a
timestamped .bak next to it.`,
	Run: func(cmd *cobra.Command, args []string) {
		path, err := resolveSettingsPath(cmd)
		if err != nil {
			presenter.Error(err, "Failed to resolve settings path")
			os.Exit(1)
		}

		f, err := settings.Load(path)
		if err != nil {
			presenter.Error(err, "Failed to load settings")
			os.Exit(1)
		}

		registry := hooks.NewRegistry(loadConfig(cmd.Context()))
		managed := managedHooksConfig(registry, hookBinary())

		removed, added, err := f.Install(&managed)
		if err != nil {
			presenter.Error(err, "Failed to compute hook entries")
			os.Exit(1)
		}

		if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
			diff, err := f.Diff()
			if err != nil {
				presenter.Error(err, "Failed to compute diff")
				os.Exit(1)
			}
			if diff == "" {
				presenter.Info(fmt.Sprintf("%s is already up to date", f.Path))
				return
			}
			fmt.Print(diff)
			return
		}

		if err := f.Save(); err != nil {
			presenter.Error(err, "Failed to write settings")
			os.Exit(1)
		}

		presenter.Success(fmt.Sprintf("Installed %d hook entries in %s", added, f.Path))
		if removed > 0 {
			presenter.Info(fmt.Sprintf("Replaced %d stale managed entries", removed))
		}
	},
}

var hookUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove claudeguard's entries from settings.json",
	Long: `Removes every managed hook entry from settings.json. Entries installed by
other tools are left untouched; groups and events that end up empty are
dropped.`,
	Run: func(cmd *cobra.Command, args []string) {
		path, err := resolveSettingsPath(cmd)
		if err != nil {
			presenter.Error(err, "Failed to resolve settings path")
			os.Exit(1)
		}

		f, err := settings.Load(path)
		if err != nil {
			presenter.Error(err, "Failed to load settings")
			os.Exit(1)
		}

		removed := f.RemoveManaged()
		if removed == 0 {
			presenter.Info(fmt.Sprintf("No managed hook entries in %s", f.Path))
			return
		}

		if err := f.Save(); err != nil {
			presenter.Error(err, "Failed to write settings")
			os.Exit(1)
		}

		presenter.Success(fmt.Sprintf("Removed %d hook entries from %s", removed, f.Path))
	},
}

var hookShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show which hooks are installed in settings.json",
	Run: func(cmd *cobra.Command, args []string) {
		path, err := resolveSettingsPath(cmd)
		if err != nil {
			presenter.Error(err, "Failed to resolve settings path")
			os.Exit(1)
		}

		f, err := settings.Load(path)
		if err != nil {
			presenter.Error(err, "Failed to load settings")
			os.Exit(1)
		}

		registry := hooks.NewRegistry(loadConfig(cmd.Context()))

		installed := make(map[string]bool)
		for _, name := range f.ManagedHookNames() {
			installed[name] = true
		}

		presenter.Section(fmt.Sprintf("Hooks in %s", f.Path))

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tEVENT\tINSTALLED")
		fmt.Fprintln(w, "----\t-----\t---------")
		for _, name := range registry.Names() {
			h, ok := registry.Get(name)
			if !ok {
				continue
			}
			status := "no"
			if installed[name] {
				status = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", name, h.Event(), status)
		}
		w.Flush()

		// Entries from an older or newer claudeguard whose hooks no longer exist
		var stale []string
		for name := range installed {
			if _, ok := registry.Get(name); !ok {
				stale = append(stale, name)
			}
		}
		sort.Strings(stale)
		for _, name := range stale {
			presenter.Warning(fmt.Sprintf("Installed hook %q is not a builtin; run hook install to refresh", name))
		}

		summaries := f.Summary()
		var withEntries []settings.EventSummary
		for _, s := range summaries {
			if s.Total > 0 {
				withEntries = append(withEntries, s)
			}
		}
		if len(withEntries) == 0 {
			return
		}

		fmt.Println()
		presenter.Section("Events")

		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		defer w.Flush()
		fmt.Fprintln(w, "EVENT\tENTRIES\tMANAGED")
		fmt.Fprintln(w, "-----\t-------\t-------")
		for _, s := range withEntries {
			fmt.Fprintf(w, "%s\t%d\t%d\n", s.Event, s.Total, s.Managed)
		}
	},
}

func init() {
	for _, cmd := range []*cobra.Command{hookInstallCmd, hookUninstallCmd, hookShowCmd} {
		cmd.Flags().String("settings", "", "Path to settings.json (default ~/.claude/settings.json)")
		cmd.Flags().Bool("local", false, "Target ./.claude/settings.json instead of the user-global file")
	}
	hookInstallCmd.Flags().Bool("dry-run", false, "Print the diff instead of writing the file")

	hookCmd.AddCommand(hookInstallCmd)
	hookCmd.AddCommand(hookUninstallCmd)
	hookCmd.AddCommand(hookShowCmd)
}

// resolveSettingsPath picks the settings file from the --settings and
// --local flags, defaulting to the user-global file.
func resolveSettingsPath(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("settings"); path != "" {
		return path, nil
	}
	if local, _ := cmd.Flags().GetBool("local"); local {
		return settings.LocalPath(), nil
	}
	return settings.DefaultPath()
}

// hookBinary is the command name managed entries invoke. The installed
// binary's absolute path keeps the entries working when claudeguard is not
// on Claude Code's PATH.
func hookBinary() string {
	exe, err := os.Executable()
	if err != nil {
		return "claudeguard"
	}
	return exe
}

// managedHooksConfig builds the settings.json groups for the builtin hooks.
// Hooks sharing an event and tool matcher land in one group, in registration
// order, so Bash guards read top to bottom in the file.
func managedHooksConfig(registry *hooks.Registry, binary string) settings.HooksConfig {
	var managed settings.HooksConfig

	for _, event := range []hooks.Event{
		hooks.EventPreToolUse,
		hooks.EventPostToolUse,
		hooks.EventUserPromptSubmit,
		hooks.EventSessionStart,
		hooks.EventStop,
	} {
		var groups []settings.HookGroup
		index := make(map[string]int)

		for _, h := range registry.ByEvent(event) {
			matcher := hooks.Matcher(h)
			i, ok := index[matcher]
			if !ok {
				i = len(groups)
				index[matcher] = i
				groups = append(groups, settings.HookGroup{Matcher: matcher})
			}
			groups[i].Hooks = append(groups[i].Hooks, settings.HookEntry{
				Type:    "command",
				Command: fmt.Sprintf("%s hook run %s", binary, h.Name()),
			})
		}

		managed.SetGroups(string(event), groups)
	}

	return managed
}
