// internal/youtube/doc.go

// Package youtube is a hand-rolled YouTube Data API v3 client for the
// read-only endpoints the scanner uses: comment threads, search, and
// video statistics.
package youtube

import "github.com/user/commentwatch/internal/types"

// Compile-time interface compliance check.
var _ types.CommentSource = (*Client)(nil)
