// internal/scanner/scanner.go

// Package scanner orchestrates scan runs: fetch comments for the
// configured target, extract event announcements, merge them into the
// store, then report.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/user/commentwatch/internal/extract"
	"github.com/user/commentwatch/internal/metrics"
	"github.com/user/commentwatch/internal/store"
	"github.com/user/commentwatch/internal/types"
	"github.com/user/commentwatch/internal/youtube"
)

// Options selects the scan target and bounds the fetch. Exactly one
// target is used per run, picked in VideoID, ChannelID, Keyword,
// CategoryID order.
type Options struct {
	VideoID    types.VideoID
	ChannelID  types.ChannelID
	Keyword    string
	CategoryID string

	// MaxVideos caps keyword and category searches.
	MaxVideos int
	// MaxResults caps the total comments fetched per run.
	MaxResults int
	// MinCommentCount and MaxAgeDays filter keyword search results.
	MinCommentCount int
	MaxAgeDays      int

	// FetchConcurrency bounds parallel per-video comment fetches.
	FetchConcurrency int64

	// DryRun reports what a scan would append without touching the
	// store, the report log, or the notifier.
	DryRun bool
}

// Scanner runs scans. Runs are serialized: a second Run blocks until
// the first finishes.
type Scanner struct {
	opts      Options
	source    types.CommentSource
	extractor *extract.Extractor
	events    *store.FileStore
	reports   *store.ReportLog
	notifier  types.Notifier
	retry     *RetryPolicy
	sem       *semaphore.Weighted

	mu sync.Mutex
}

// New creates a Scanner. notifier may be nil when announcements are not
// configured.
func New(source types.CommentSource, extractor *extract.Extractor, events *store.FileStore, reports *store.ReportLog, notifier types.Notifier, opts Options) *Scanner {
	if opts.MaxResults <= 0 {
		opts.MaxResults = 100
	}
	if opts.FetchConcurrency <= 0 {
		opts.FetchConcurrency = 4
	}
	return &Scanner{
		opts:      opts,
		source:    source,
		extractor: extractor,
		events:    events,
		reports:   reports,
		notifier:  notifier,
		retry:     DefaultRetryPolicy(),
		sem:       semaphore.NewWeighted(opts.FetchConcurrency),
	}
}

// Run executes one scan and returns its report.
func (s *Scanner) Run(ctx context.Context) (*types.ScanReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	started := time.Now().UTC()
	report := &types.ScanReport{
		RunID:     types.NewRunID(),
		StartedAt: started,
		DryRun:    s.opts.DryRun,
	}
	slog.Info("scan started", "run_id", report.RunID)

	comments, videos, err := s.fetch(ctx)
	if err != nil {
		metrics.ScansTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, fmt.Errorf("fetch comments: %w", err)
	}
	report.Videos = videos
	report.Fetched = len(comments)
	metrics.CommentsFetched.Add(float64(len(comments)))

	result := s.extractor.Extract(comments)
	report.Spam = result.Spam
	report.NoMatch = result.NoMatch
	report.Matched = len(result.Accepted)
	metrics.CommentsRejected.WithLabelValues(metrics.ReasonSpam).Add(float64(result.Spam))
	metrics.CommentsRejected.WithLabelValues(metrics.ReasonNoMatch).Add(float64(result.NoMatch))

	existing, err := s.events.Load()
	if err != nil {
		metrics.ScansTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, fmt.Errorf("load store: %w", err)
	}

	// Extraction timestamps are stored at second precision.
	now := started.Truncate(time.Second)
	updated, changed := store.Merge(existing, result.Accepted, now)
	report.Changed = changed
	report.StoreSize = len(updated)
	if changed {
		added := updated[len(existing):]
		report.Appended = len(added)
		report.NewEvents = added
		report.NewEventIDs = make([]types.CommentID, len(added))
		for i, ev := range added {
			report.NewEventIDs[i] = ev.ID
		}
	}

	if changed && !s.opts.DryRun {
		if err := s.events.Save(updated); err != nil {
			metrics.ScansTotal.WithLabelValues(metrics.ResultError).Inc()
			return nil, fmt.Errorf("save store: %w", err)
		}
	}

	report.FinishedAt = time.Now().UTC()

	if !s.opts.DryRun {
		if err := s.reports.Append(report); err != nil {
			slog.Warn("failed to record scan report", "error", err)
		}
		if changed && s.notifier != nil {
			if err := s.notifier.Announce(report); err != nil {
				slog.Warn("announce failed", "error", err)
			}
		}
	}

	metrics.ScansTotal.WithLabelValues(metrics.ResultOK).Inc()
	metrics.EventsAppended.Add(float64(report.Appended))
	metrics.StoreEvents.Set(float64(report.StoreSize))
	metrics.LastScanTimestamp.Set(float64(report.FinishedAt.Unix()))
	metrics.ScanDuration.Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())

	slog.Info("scan finished",
		"run_id", report.RunID,
		"videos", report.Videos,
		"fetched", report.Fetched,
		"matched", report.Matched,
		"appended", report.Appended,
		"store_size", report.StoreSize)
	return report, nil
}

// fetch resolves the configured target to a batch of comments and the
// number of videos they came from.
func (s *Scanner) fetch(ctx context.Context) ([]types.Comment, int, error) {
	switch {
	case s.opts.VideoID != "":
		comments, err := s.videoComments(ctx, s.opts.VideoID, s.opts.MaxResults)
		if err != nil {
			return nil, 0, err
		}
		return comments, 1, nil

	case s.opts.ChannelID != "":
		var videos []types.VideoID
		err := s.retry.Execute(func() error {
			var err error
			videos, err = s.source.ChannelUploads(ctx, s.opts.ChannelID, 5)
			return err
		})
		if err != nil {
			return nil, 0, err
		}
		return s.fanOut(ctx, videos)

	case s.opts.Keyword != "":
		var videos []types.VideoID
		err := s.retry.Execute(func() error {
			var err error
			videos, err = s.source.SearchByKeyword(ctx, s.opts.Keyword, types.SearchOptions{
				MaxVideos:       s.opts.MaxVideos,
				MinCommentCount: s.opts.MinCommentCount,
				MaxAgeDays:      s.opts.MaxAgeDays,
			})
			return err
		})
		if err != nil {
			return nil, 0, err
		}
		if len(videos) == 0 {
			slog.Warn("keyword search found no videos", "keyword", s.opts.Keyword)
		}
		return s.fanOut(ctx, videos)

	case s.opts.CategoryID != "":
		var videos []types.VideoID
		err := s.retry.Execute(func() error {
			var err error
			videos, err = s.source.SearchByCategory(ctx, s.opts.CategoryID, s.opts.MaxVideos)
			return err
		})
		if err != nil {
			return nil, 0, err
		}
		return s.fanOut(ctx, videos)

	default:
		return nil, 0, fmt.Errorf("no scan target configured")
	}
}

// fanOut fetches comments for each video in parallel, bounded by the
// concurrency semaphore, then reassembles them in video order. A video
// that keeps failing is skipped with a warning; a quota failure aborts
// the whole run since every later call would fail the same way.
func (s *Scanner) fanOut(ctx context.Context, videos []types.VideoID) ([]types.Comment, int, error) {
	if len(videos) == 0 {
		return nil, 0, nil
	}
	perVideo := s.opts.MaxResults/len(videos) + 1

	results := make([][]types.Comment, len(videos))
	errs := make([]error, len(videos))
	var wg sync.WaitGroup
	for i, id := range videos {
		if err := s.sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, 0, err
		}
		wg.Add(1)
		go func(i int, id types.VideoID) {
			defer wg.Done()
			defer s.sem.Release(1)
			results[i], errs[i] = s.videoComments(ctx, id, perVideo)
		}(i, id)
	}
	wg.Wait()

	var comments []types.Comment
	for i, err := range errs {
		if err != nil {
			if errors.Is(err, youtube.ErrQuota) {
				return nil, 0, err
			}
			slog.Warn("skipping video after fetch failure", "video_id", videos[i], "error", err)
			continue
		}
		comments = append(comments, results[i]...)
	}
	if len(comments) > s.opts.MaxResults {
		comments = comments[:s.opts.MaxResults]
	}
	return comments, len(videos), nil
}

func (s *Scanner) videoComments(ctx context.Context, id types.VideoID, limit int) ([]types.Comment, error) {
	var comments []types.Comment
	err := s.retry.Execute(func() error {
		var err error
		comments, err = s.source.VideoComments(ctx, id, limit)
		return err
	})
	return comments, err
}
