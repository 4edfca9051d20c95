// internal/types/interfaces.go
package types

import (
	"context"
)

// CommentSource fetches comments and candidate videos from YouTube.
type CommentSource interface {
	VideoComments(ctx context.Context, id VideoID, max int) ([]Comment, error)
	ChannelUploads(ctx context.Context, id ChannelID, max int) ([]VideoID, error)
	SearchByKeyword(ctx context.Context, keyword string, opts SearchOptions) ([]VideoID, error)
	SearchByCategory(ctx context.Context, categoryID string, max int) ([]VideoID, error)
}

// Notifier announces the outcome of a scan that found new events.
type Notifier interface {
	Announce(report *ScanReport) error
}
