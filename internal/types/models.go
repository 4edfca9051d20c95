// internal/types/models.go
package types

import (
	"time"
)

// Comment is a top-level YouTube comment as returned by the fetch layer,
// with markup already normalized to plain text.
type Comment struct {
	ID          CommentID `json:"comment_id"`
	Text        string    `json:"text"`
	Author      string    `json:"author"`
	PublishedAt time.Time `json:"published_at"`
}

// Event is a comment that was classified as an event announcement.
// ExtractedAt records when the scan picked it up, not when the event
// it announces takes place.
type Event struct {
	Comment
	ExtractedAt time.Time `json:"extracted_at"`
}

// ScanReport summarizes one scan run. NewEvents carries the freshly
// appended events for announcers; it is not persisted, only their ids are.
type ScanReport struct {
	RunID       RunID       `json:"run_id"`
	StartedAt   time.Time   `json:"started_at"`
	FinishedAt  time.Time   `json:"finished_at"`
	Videos      int         `json:"videos"`
	Fetched     int         `json:"fetched"`
	Spam        int         `json:"spam"`
	NoMatch     int         `json:"no_match"`
	Matched     int         `json:"matched"`
	Appended    int         `json:"appended"`
	StoreSize   int         `json:"store_size"`
	Changed     bool        `json:"changed"`
	DryRun      bool        `json:"dry_run,omitempty"`
	NewEventIDs []CommentID `json:"new_event_ids,omitempty"`
	NewEvents   []Event     `json:"-"`
}

// SearchOptions bounds a keyword search for candidate videos.
type SearchOptions struct {
	MaxVideos       int
	MinCommentCount int
	MaxAgeDays      int
}
