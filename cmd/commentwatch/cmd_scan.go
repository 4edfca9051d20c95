// cmd/commentwatch/cmd_scan.go
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/user/commentwatch/internal/config"
	"github.com/user/commentwatch/internal/extract"
	"github.com/user/commentwatch/internal/notify"
	"github.com/user/commentwatch/internal/scanner"
	"github.com/user/commentwatch/internal/store"
	"github.com/user/commentwatch/internal/telegram"
	"github.com/user/commentwatch/internal/types"
	"github.com/user/commentwatch/internal/youtube"
)

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().Bool("dry-run", false, "report matches without saving or announcing")
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one scan now",
	Args:  cobra.NoArgs,
	RunE:  runScan,
}

// buildScanner assembles the scan pipeline from config. The returned
// stores are shared with the status server in serve mode.
func buildScanner(cfg *config.Config, dryRun bool) (*scanner.Scanner, *store.FileStore, *store.ReportLog, error) {
	rules := extract.DefaultRules()
	if cfg.RulesPath != "" {
		var err error
		rules, err = extract.LoadRulesFile(cfg.RulesPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("load rules file: %w", err)
		}
		slog.Info("loaded extraction rules", "path", cfg.RulesPath,
			"temporal", len(rules.Temporal), "keywords", len(rules.Keywords))
	}
	extractor, err := extract.NewExtractor(rules)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create extractor: %w", err)
	}

	events := store.NewFileStore(filepath.Join(cfg.DataDir, "events.json"))
	reports := store.NewReportLog(filepath.Join(cfg.DataDir, "reports.jsonl"))

	sinks := notify.Fanout{notify.Logger{}}
	if cfg.Telegram.Token != "" && cfg.Telegram.ChatID != 0 {
		announcer, err := telegram.New(cfg.Telegram.Token, cfg.Telegram.ChatID)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("create telegram announcer: %w", err)
		}
		sinks = append(sinks, announcer)
		slog.Info("telegram announcer enabled")
	} else {
		slog.Info("telegram announcer disabled (no token or chat id)")
	}

	sc := scanner.New(youtube.New(cfg.YouTube.APIKey), extractor, events, reports, sinks, scanner.Options{
		VideoID:         types.VideoID(cfg.YouTube.VideoID),
		ChannelID:       types.ChannelID(cfg.YouTube.ChannelID),
		Keyword:         cfg.YouTube.SearchKeyword,
		CategoryID:      cfg.YouTube.CategoryID,
		MaxVideos:       cfg.YouTube.MaxVideos,
		MaxResults:      cfg.YouTube.MaxResults,
		MinCommentCount: cfg.YouTube.MinCommentCount,
		MaxAgeDays:      cfg.YouTube.MaxAgeDays,
		DryRun:          dryRun,
	})
	return sc, events, reports, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	setupLogging(cfg)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	sc, _, _, err := buildScanner(cfg, dryRun)
	if err != nil {
		return err
	}

	report, err := sc.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	printReport(os.Stdout, report)
	return nil
}

func printReport(w io.Writer, report *types.ScanReport) {
	fmt.Fprintf(w, "Run %s: %d comments from %d videos, %d matched, %d new (store: %d)\n",
		report.RunID, report.Fetched, report.Videos, report.Matched, report.Appended, report.StoreSize)
	for _, ev := range report.NewEvents {
		fmt.Fprintf(w, "  %s  %s  %s\n", ev.ID, ev.Author, ev.Text)
	}
	if report.DryRun {
		fmt.Fprintln(w, "Dry run: store not modified.")
	}
}
