package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/mriley/claudeguard/pkg/audit"
	"github.com/mriley/claudeguard/pkg/config"
	"github.com/mriley/claudeguard/pkg/hooks"
	"github.com/mriley/claudeguard/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Run and manage Claude Code lifecycle hooks",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var hookRunCmd = &cobra.Command{
	Use:   "run <name>",
	Short: "Execute a hook against the payload on stdin",
	Long: `Reads a Claude Code hook payload from stdin, runs the named hook and exits
0 (allow), 2 (block) or 1 (malformed payload). This is the command that
hook install registers in settings.json; it is rarely invoked by hand.

Set ` + hooks.KillSwitchEnv + ` to bypass every hook without touching settings.json.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		// stdout carries the hook protocol, so all logging goes to stderr
		logger.SetLogOutput(os.Stderr)
		logger.SetLogLevel(viper.GetString("log_level"))
		logger.SetLogFormat(viper.GetString("log_format"))

		cfg := loadConfig(ctx)
		registry := hooks.NewRegistry(cfg)

		opts := []hooks.RunnerOption{hooks.WithDisabled(cfg.Hooks.Disabled)}
		if !cfg.Audit.Disabled {
			if store, err := audit.NewStore(cfg.Audit.Path); err == nil {
				opts = append(opts, hooks.WithRecorder(auditRecorder(store)))
			} else {
				logger.G(ctx).WithError(err).Debug("audit log unavailable, skipping recording")
			}
		}

		runner := hooks.NewRunner(registry, opts...)
		os.Exit(runner.Run(ctx, args[0]))
	},
}

var hookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the builtin hooks",
	Run: func(cmd *cobra.Command, args []string) {
		registry := hooks.NewRegistry(loadConfig(cmd.Context()))

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		defer w.Flush()

		fmt.Fprintln(w, "NAME\tEVENT\tMATCHER\tDESCRIPTION")
		fmt.Fprintln(w, "----\t-----\t-------\t-----------")

		for _, name := range registry.Names() {
			h, ok := registry.Get(name)
			if !ok {
				continue
			}
			matcher := hooks.Matcher(h)
			if matcher == "" {
				matcher = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", h.Name(), h.Event(), matcher, h.Description())
		}
	},
}

func init() {
	hookCmd.AddCommand(hookRunCmd)
	hookCmd.AddCommand(hookListCmd)
	rootCmd.AddCommand(hookCmd)
}

// loadConfig returns the effective configuration, degrading to defaults when
// the config file is broken. Hooks fail open, so a bad config must never
// stop the binary.
func loadConfig(ctx context.Context) config.Config {
	cfg, err := config.Load()
	if err != nil {
		logger.G(ctx).WithError(err).Warn("failed to load configuration, using defaults")
	}
	return cfg
}

// auditRecorder appends one audit record per completed hook run. Appends are
// strictly best-effort: a failed write is logged at debug and otherwise
// ignored.
func auditRecorder(store *audit.Store) hooks.RecordFunc {
	return func(ctx context.Context, hook hooks.Hook, payload *hooks.Payload, result hooks.Result, took time.Duration) {
		record := audit.Record{
			Hook:     hook.Name(),
			Event:    string(hook.Event()),
			ToolName: payload.ToolName,
			Decision: string(result.Decision),
			Reason:   result.Reason,
		}
		if err := store.Append(record); err != nil {
			logger.G(ctx).WithError(err).WithField("took", took).Debug("failed to append audit record")
		}
	}
}
