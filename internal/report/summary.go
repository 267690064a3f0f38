package report

import (
	"cmp"
	"slices"

	"github.com/nao1215/scanmark/internal/annotation"
)

// Summary aggregates a set of entries.
type Summary struct {
	// Total is the number of entries.
	Total int `json:"total"`

	// NotScanned counts entries that were only observed.
	NotScanned int `json:"notScanned"`

	// Manual counts entries marked by hand.
	Manual int `json:"manual"`

	// Active counts entries confirmed by an active scan.
	Active int `json:"active"`

	// Tags counts entries per free-form tag, most used first.
	Tags []TagCount `json:"tags"`
}

// TagCount is the number of entries carrying one tag.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Summarize computes a Summary for entries.
func Summarize(entries []annotation.Entry) Summary {
	s := Summary{Total: len(entries), Tags: []TagCount{}}
	counts := make(map[string]int)

	for _, e := range entries {
		switch e.Record.Status {
		case annotation.ScannedManual:
			s.Manual++
		case annotation.ScannedActive:
			s.Active++
		default:
			s.NotScanned++
		}
		for _, tag := range e.Record.Tags {
			counts[tag]++
		}
	}

	for tag, n := range counts {
		s.Tags = append(s.Tags, TagCount{Tag: tag, Count: n})
	}
	slices.SortFunc(s.Tags, func(a, b TagCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Tag, b.Tag)
	})

	return s
}

// Scanned returns the number of entries with a scanned status.
func (s Summary) Scanned() int {
	return s.Manual + s.Active
}
