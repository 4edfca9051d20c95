// internal/store/merge.go
package store

import (
	"time"

	"github.com/user/commentwatch/internal/types"
)

// Merge folds freshly classified comments into the existing event list.
// Comments whose id is already present are skipped, the stored record
// always wins. Existing events keep their positions and new ones are
// appended in candidate order, so the list stays ordered by extraction
// time.
//
// When nothing new arrives the existing slice is returned untouched and
// changed is false. When something is appended the result is a fresh
// slice; existing is never mutated.
func Merge(existing []types.Event, candidates []types.Comment, now time.Time) (updated []types.Event, changed bool) {
	seen := make(map[types.CommentID]struct{}, len(existing))
	for _, ev := range existing {
		seen[ev.ID] = struct{}{}
	}

	updated = existing
	for _, c := range candidates {
		if _, dup := seen[c.ID]; dup {
			continue
		}
		if !changed {
			updated = make([]types.Event, len(existing), len(existing)+len(candidates))
			copy(updated, existing)
			changed = true
		}
		seen[c.ID] = struct{}{}
		updated = append(updated, types.Event{Comment: c, ExtractedAt: now})
	}
	return updated, changed
}
