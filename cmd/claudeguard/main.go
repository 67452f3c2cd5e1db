package main

import (
	"fmt"
	"os"

	"github.com/mriley/claudeguard/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	config.Init()
}

var rootCmd = &cobra.Command{
	Use:   "claudeguard",
	Short: "Guard rails, context hooks and skills for Claude Code sessions",
	Long: `Claudeguard packages lifecycle hooks, a skill corpus resolver and slash
command tooling for Claude Code into a single binary. Hooks are registered
in settings.json as "claudeguard hook run <name>" and speak Claude Code's
hook protocol on stdin/stdout.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func main() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "fmt", "Log format (fmt, json, text)")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
