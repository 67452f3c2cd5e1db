package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/mriley/claudeguard/pkg/commands"
	"github.com/mriley/claudeguard/pkg/presenter"
	"github.com/spf13/cobra"
)

var commandCmd = &cobra.Command{
	Use:   "command",
	Short: "Manage slash commands",
	Long: `Slash commands are markdown files under ./.claude/commands and
~/.claude/commands with optional YAML frontmatter (description,
allowed-tools, model, argument-hint). Their bodies support $1..$N and
$ARGUMENTS placeholders.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var commandListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available slash commands",
	Run: func(cmd *cobra.Command, args []string) {
		loader, err := commands.NewLoader()
		if err != nil {
			presenter.Error(err, "Failed to initialize command loader")
			os.Exit(1)
		}

		cmds, err := loader.ListCommands()
		if err != nil {
			// Unparseable files should not hide the rest of the corpus
			presenter.Warning(fmt.Sprintf("Some command files failed to parse: %v", err))
		}
		if len(cmds) == 0 {
			presenter.Info("No commands found")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		defer w.Flush()

		fmt.Fprintln(w, "NAME\tDESCRIPTION\tARGUMENTS")
		fmt.Fprintln(w, "----\t-----------\t---------")

		for _, c := range cmds {
			description := c.Description
			if len(description) > 60 {
				description = description[:57] + "..."
			}
			hint := c.ArgumentHint
			if hint == "" {
				hint = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.Name, description, hint)
		}
	},
}

var commandShowCmd = &cobra.Command{
	Use:   "show <name> [args...]",
	Short: "Print a command's instructions with arguments expanded",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		loader, err := commands.NewLoader()
		if err != nil {
			presenter.Error(err, "Failed to initialize command loader")
			os.Exit(1)
		}

		c, err := loader.GetCommand(args[0])
		if err != nil {
			presenter.Error(err, "Failed to load command")
			os.Exit(1)
		}

		fmt.Println(c.ExpandArguments(args[1:]))
	},
}

func init() {
	commandCmd.AddCommand(commandListCmd)
	commandCmd.AddCommand(commandShowCmd)
	rootCmd.AddCommand(commandCmd)
}
