package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/hashicorp/go-multierror"
	"github.com/mriley/claudeguard/pkg/logger"
	"github.com/mriley/claudeguard/pkg/presenter"
	"github.com/mriley/claudeguard/pkg/skills"
	"github.com/spf13/cobra"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Manage the skill corpus",
	Long: `Skills are directories containing a SKILL.md file with YAML frontmatter
(name, description) and workflow instructions. Claudeguard discovers them
under ./.claude/skills and ~/.claude/skills plus any skills.dirs extras
from config, and surfaces them to Claude Code via the
skill-activation-prompt hook.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered skills",
	Run: func(cmd *cobra.Command, args []string) {
		discovery, err := newDiscovery(cmd.Context())
		if err != nil {
			presenter.Error(err, "Failed to initialize skill discovery")
			os.Exit(1)
		}

		discovered, err := discovery.DiscoverSkills()
		if err != nil {
			presenter.Error(err, "Failed to discover skills")
			os.Exit(1)
		}
		if len(discovered) == 0 {
			presenter.Info("No skills found")
			return
		}

		names := make([]string, 0, len(discovered))
		for name := range discovered {
			names = append(names, name)
		}
		sort.Strings(names)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		defer w.Flush()

		fmt.Fprintln(w, "NAME\tDIRECTORY\tDESCRIPTION")
		fmt.Fprintln(w, "----\t---------\t-----------")

		for _, name := range names {
			skill := discovered[name]
			description := skill.Description
			if len(description) > 60 {
				description = description[:57] + "..."
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", skill.Name, skill.Directory, description)
		}
	},
}

var skillShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a skill's instructions",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		discovery, err := newDiscovery(cmd.Context())
		if err != nil {
			presenter.Error(err, "Failed to initialize skill discovery")
			os.Exit(1)
		}

		skill, err := discovery.GetSkill(args[0])
		if err != nil {
			presenter.Error(err, "Failed to load skill")
			os.Exit(1)
		}

		fmt.Println(skill.Content)
	},
}

var skillLintCmd = &cobra.Command{
	Use:   "lint [dir]",
	Short: "Validate skills and their manifest.json files",
	Long: `Checks every discovered skill for parseable frontmatter with the required
name and description fields, and every skills directory's manifest.json for
patterns that resolve to at least one markdown file. With an argument, only
that directory is checked. Problems accumulate rather than stopping at the
first.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var dirs []string
		if len(args) == 1 {
			dirs = args
		} else {
			discovery, err := newDiscovery(cmd.Context())
			if err != nil {
				presenter.Error(err, "Failed to initialize skill discovery")
				os.Exit(1)
			}
			dirs = discovery.Dirs()
		}

		var result *multierror.Error
		for _, dir := range dirs {
			result = multierror.Append(result, skills.Lint(dir))
		}

		if err := result.ErrorOrNil(); err != nil {
			presenter.Error(err, "Lint found problems")
			os.Exit(1)
		}
		presenter.Success("All skills lint clean")
	},
}

var skillResolveCmd = &cobra.Command{
	Use:   "resolve <file>",
	Short: "Print the skill files that apply to a target file",
	Long: `Applies each skills directory's manifest.json to the target path and prints
the matching skill files, one per line. Used to answer "which skills should
load when the agent touches this file".`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		discovery, err := newDiscovery(ctx)
		if err != nil {
			presenter.Error(err, "Failed to initialize skill discovery")
			os.Exit(1)
		}

		var matched []string
		for _, dir := range discovery.Dirs() {
			resolver, err := skills.NewResolver(dir)
			if err != nil {
				// Broken manifests are lint's problem, not resolve's
				logger.G(ctx).WithError(err).WithField("dir", dir).Warn("skipping skills directory")
				continue
			}
			matched = append(matched, resolver.Resolve(args[0])...)
		}
		sort.Strings(matched)

		for _, path := range matched {
			fmt.Println(path)
		}
	},
}

var skillSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema for manifest.json",
	Run: func(cmd *cobra.Command, args []string) {
		data, err := json.MarshalIndent(skills.ManifestSchema(), "", "  ")
		if err != nil {
			presenter.Error(err, "Failed to marshal schema")
			os.Exit(1)
		}
		fmt.Println(string(data))
	},
}

func init() {
	skillCmd.AddCommand(skillListCmd)
	skillCmd.AddCommand(skillShowCmd)
	skillCmd.AddCommand(skillLintCmd)
	skillCmd.AddCommand(skillResolveCmd)
	skillCmd.AddCommand(skillSchemaCmd)
	rootCmd.AddCommand(skillCmd)
}

// newDiscovery builds skill discovery over the default directories plus any
// skills.dirs extras from config.
func newDiscovery(ctx context.Context) (*skills.Discovery, error) {
	cfg := loadConfig(ctx)
	return skills.NewDiscovery(skills.WithDefaultDirs(), skills.WithExtraDirs(cfg.Skills.Dirs...))
}
