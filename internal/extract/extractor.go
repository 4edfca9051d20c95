// internal/extract/extractor.go
package extract

import (
	"github.com/user/commentwatch/internal/types"
)

// Extractor runs the spam filter and the classifier over comment batches.
type Extractor struct {
	classifier *Classifier
}

func NewExtractor(rules Rules) (*Extractor, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &Extractor{classifier: NewClassifier(rules)}, nil
}

// Result records where each comment of a batch ended up.
type Result struct {
	Accepted []types.Comment
	Spam     int
	NoMatch  int
}

// Extract returns the comments that look like event announcements, in
// input order. Comments rejected by the filter never reach the
// classifier.
func (e *Extractor) Extract(comments []types.Comment) Result {
	var res Result
	for _, c := range comments {
		switch {
		case !Accepts(c.Text):
			res.Spam++
		case !e.classifier.IsEvent(c.Text):
			res.NoMatch++
		default:
			res.Accepted = append(res.Accepted, c)
		}
	}
	return res
}
