// internal/extract/rules.go
package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// TemporalPattern is one named date or time expression matcher.
// Matching is case-insensitive so the AM/PM forms also catch am/pm.
type TemporalPattern struct {
	Name string
	Expr string

	re *regexp.Regexp
}

func NewTemporalPattern(name, expr string) (TemporalPattern, error) {
	re, err := regexp.Compile("(?i)" + expr)
	if err != nil {
		return TemporalPattern{}, fmt.Errorf("temporal pattern %q: %w", name, err)
	}
	return TemporalPattern{Name: name, Expr: expr, re: re}, nil
}

func mustTemporal(name, expr string) TemporalPattern {
	p, err := NewTemporalPattern(name, expr)
	if err != nil {
		panic(err)
	}
	return p
}

// Match reports whether text contains this expression anywhere.
func (p TemporalPattern) Match(text string) bool {
	return p.re.MatchString(text)
}

func (p TemporalPattern) String() string {
	return p.Name
}

// Rules holds the two tables the classifier consults. A comment must
// match both a temporal pattern and a keyword to count as an event.
type Rules struct {
	Temporal []TemporalPattern
	Keywords []string
}

// DefaultRules returns a fresh copy of the built-in tables.
func DefaultRules() Rules {
	return Rules{
		Temporal: []TemporalPattern{
			mustTemporal("month-day", `\d{1,2}月\d{1,2}日`),
			mustTemporal("slash-date", `\d{1,2}/\d{1,2}`),
			mustTemporal("dash-date", `\d{1,2}-\d{1,2}`),
			mustTemporal("tomorrow", `明日`),
			mustTemporal("day-after-tomorrow", `明後日`),
			mustTemporal("next-week", `来週`),
			mustTemporal("next-month", `来月`),
			mustTemporal("this-week", `今週`),
			mustTemporal("this-month", `今月`),
			mustTemporal("monday", `月曜`),
			mustTemporal("tuesday", `火曜`),
			mustTemporal("wednesday", `水曜`),
			mustTemporal("thursday", `木曜`),
			mustTemporal("friday", `金曜`),
			mustTemporal("saturday", `土曜`),
			mustTemporal("sunday", `日曜`),
			mustTemporal("hour-of-day", `\d{1,2}時`),
			mustTemporal("clock-time", `\d{1,2}:\d{2}`),
			mustTemporal("am-hour-ja", `午前\d{1,2}時`),
			mustTemporal("pm-hour-ja", `午後\d{1,2}時`),
			mustTemporal("am-hour", `AM\d{1,2}`),
			mustTemporal("pm-hour", `PM\d{1,2}`),
		},
		Keywords: []string{
			"開催", "集合", "ライブ", "オフ会", "発売", "スタート",
			"場所", "チケット", "イベント", "会場", "参加", "予約",
			"開始", "終了", "開催日", "日程", "日時",
		},
	}
}

// Validate checks that both tables are usable and disjoint: no temporal
// pattern may match any keyword, or a single phrase could satisfy both
// halves of the classification.
func (r Rules) Validate() error {
	if len(r.Temporal) == 0 {
		return fmt.Errorf("no temporal patterns")
	}
	if len(r.Keywords) == 0 {
		return fmt.Errorf("no keywords")
	}

	names := make(map[string]struct{}, len(r.Temporal))
	for _, p := range r.Temporal {
		if p.Name == "" {
			return fmt.Errorf("temporal pattern with empty name")
		}
		if p.re == nil {
			return fmt.Errorf("temporal pattern %q is not compiled", p.Name)
		}
		if _, dup := names[p.Name]; dup {
			return fmt.Errorf("duplicate temporal pattern %q", p.Name)
		}
		names[p.Name] = struct{}{}
	}

	seen := make(map[string]struct{}, len(r.Keywords))
	for _, k := range r.Keywords {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("empty keyword")
		}
		if k != strings.ToLower(k) {
			return fmt.Errorf("keyword %q must be lowercase", k)
		}
		if _, dup := seen[k]; dup {
			return fmt.Errorf("duplicate keyword %q", k)
		}
		seen[k] = struct{}{}
	}

	for _, p := range r.Temporal {
		for _, k := range r.Keywords {
			if p.Match(k) {
				return fmt.Errorf("temporal pattern %q matches keyword %q: tables must be disjoint", p.Name, k)
			}
		}
	}
	return nil
}
