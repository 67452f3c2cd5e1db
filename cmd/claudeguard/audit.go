package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/mriley/claudeguard/pkg/audit"
	"github.com/mriley/claudeguard/pkg/presenter"
	"github.com/spf13/cobra"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the hook decision log",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recent hook decisions, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		cfg := loadConfig(cmd.Context())
		store, err := audit.NewStore(cfg.Audit.Path)
		if err != nil {
			presenter.Error(err, "Failed to locate audit log")
			os.Exit(1)
		}

		records, err := store.ReadRecent(limit)
		if err != nil {
			presenter.Error(err, "Failed to read audit log")
			os.Exit(1)
		}
		if len(records) == 0 {
			presenter.Info(fmt.Sprintf("No audit records in %s", store.Path()))
			return
		}

		if asJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetEscapeHTML(false)
			for _, record := range records {
				if err := encoder.Encode(record); err != nil {
					presenter.Error(err, "Failed to encode record")
					os.Exit(1)
				}
			}
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		defer w.Flush()

		fmt.Fprintln(w, "TIME\tHOOK\tEVENT\tTOOL\tDECISION\tREASON")
		fmt.Fprintln(w, "----\t----\t-----\t----\t--------\t------")

		for _, record := range records {
			tool := record.ToolName
			if tool == "" {
				tool = "-"
			}
			reason := strings.ReplaceAll(record.Reason, "\n", " ")
			if len(reason) > 60 {
				reason = reason[:57] + "..."
			}
			if reason == "" {
				reason = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				record.Time.Local().Format("2006-01-02 15:04:05"),
				record.Hook, record.Event, tool, record.Decision, reason)
		}
	},
}

func init() {
	auditListCmd.Flags().IntP("limit", "n", 20, "Maximum number of records to show (0 for all)")
	auditListCmd.Flags().Bool("json", false, "Output raw JSONL instead of a table")

	auditCmd.AddCommand(auditListCmd)
	rootCmd.AddCommand(auditCmd)
}
