// internal/notify/notify.go

// Package notify composes the sinks that receive scan announcements.
package notify

import (
	"errors"
	"log/slog"

	"github.com/user/commentwatch/internal/types"
)

// Fanout announces a report to every sink and joins their errors.
// A failing sink does not stop delivery to the others.
type Fanout []types.Notifier

// Announce implements types.Notifier.
func (f Fanout) Announce(report *types.ScanReport) error {
	var errs []error
	for _, n := range f {
		if err := n.Announce(report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Logger announces new events on the structured log. It is the default
// sink in serve mode, where a scan's output would otherwise be invisible.
type Logger struct{}

// Announce implements types.Notifier.
func (Logger) Announce(report *types.ScanReport) error {
	for _, ev := range report.NewEvents {
		slog.Info("event announcement",
			"run_id", report.RunID,
			"comment_id", ev.ID,
			"author", ev.Author,
			"text", ev.Text,
		)
	}
	return nil
}

// Compile-time interface checks.
var (
	_ types.Notifier = Fanout(nil)
	_ types.Notifier = Logger{}
)
