// cmd/commentwatch/cmd_store.go
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/commentwatch/internal/store"
)

func init() {
	rootCmd.AddCommand(storeCmd)
	storeCmd.AddCommand(storeListCmd, storeStatsCmd)

	storeListCmd.Flags().Int("limit", 20, "number of events to show, newest last")
}

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Inspect the event store",
}

func openStores() (*store.FileStore, *store.ReportLog) {
	cfg := loadConfig()
	events := store.NewFileStore(filepath.Join(cfg.DataDir, "events.json"))
	reports := store.NewReportLog(filepath.Join(cfg.DataDir, "reports.jsonl"))
	return events, reports
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		events, _ := openStores()

		list, err := events.Tail(limit)
		if err != nil {
			return fmt.Errorf("list events: %w", err)
		}

		if len(list) == 0 {
			fmt.Println("No events stored.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "COMMENT ID\tAUTHOR\tPUBLISHED\tEXTRACTED\tTEXT")
		for _, ev := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				ev.ID,
				ev.Author,
				ev.PublishedAt.Format("2006-01-02 15:04"),
				ev.ExtractedAt.Format("2006-01-02 15:04"),
				clip(ev.Text, 60),
			)
		}
		return w.Flush()
	},
}

var storeStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show store totals and the last scan",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		events, reports := openStores()

		count, err := events.Count()
		if err != nil {
			return fmt.Errorf("count events: %w", err)
		}

		fmt.Fprintf(os.Stdout, "Events: %d\n", count)
		fmt.Fprintf(os.Stdout, "File:   %s\n", events.Path())

		last, err := reports.Last()
		if err != nil {
			return fmt.Errorf("read report log: %w", err)
		}
		if last == nil {
			fmt.Fprintln(os.Stdout, "Last scan: never")
			return nil
		}
		fmt.Fprintf(os.Stdout, "Last scan: %s (%d fetched, %d new)\n",
			last.FinishedAt.Format("2006-01-02 15:04:05"),
			last.Fetched,
			last.Appended,
		)
		return nil
	},
}

// clip shortens text to at most n runes for single-line table output.
func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
