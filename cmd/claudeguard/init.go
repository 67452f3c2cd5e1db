package main

import (
	"fmt"
	"os"

	"github.com/mriley/claudeguard/pkg/presenter"
	"github.com/mriley/claudeguard/pkg/scaffold"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold claudeguard config and a starter skill in the current repo",
	Long: `Writes ./.claudeguard/config.yaml, ./.claude/skills/manifest.json and an
example skill from embedded templates. Existing files are left alone unless
--force is given.`,
	Run: func(cmd *cobra.Command, args []string) {
		force, _ := cmd.Flags().GetBool("force")

		presenter.Section("Scaffolding")

		for _, f := range scaffold.Files() {
			written, err := f.Write(".", force)
			if err != nil {
				presenter.Error(err, fmt.Sprintf("Failed to write %s", f.Path))
				os.Exit(1)
			}
			if written {
				presenter.Success(fmt.Sprintf("Wrote %s", f.Path))
			} else {
				presenter.Warning(fmt.Sprintf("Skipped %s (already exists, use --force to overwrite)", f.Path))
			}
		}

		fmt.Println()
		presenter.Info("Next steps:")
		presenter.Info("  claudeguard hook install   # register the hooks in settings.json")
		presenter.Info("  claudeguard doctor         # check the environment")
	},
}

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing files")

	rootCmd.AddCommand(initCmd)
}
