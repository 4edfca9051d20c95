// internal/types/ids.go
package types

import (
	"github.com/google/uuid"
)

// CommentID is YouTube's globally unique id for a top-level comment.
type CommentID string

// VideoID is a YouTube video id.
type VideoID string

// ChannelID is a YouTube channel id.
type ChannelID string

// RunID identifies one scan run.
type RunID string

func NewRunID() RunID {
	return RunID(uuid.New().String())
}
