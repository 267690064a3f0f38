package annotation

import (
	"slices"
	"time"
)

// Record is a snapshot of the annotation attached to one canonical URL.
// Records returned by the Registry are copies; changing them has no effect
// on the registry.
type Record struct {
	// Status is the scan status.
	Status Status `json:"status"`

	// Tags holds the free-form tags in sorted order. ScannedTag never
	// appears here; use AllTags to include it.
	Tags []string `json:"tags"`

	// FirstSeen is when the record was created.
	FirstSeen time.Time `json:"firstSeen"`

	// UpdatedAt is when the record last changed.
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasTag reports whether the record carries tag. ScannedTag is present iff
// the status is not NotScanned.
func (r Record) HasTag(tag string) bool {
	tag = NormalizeTag(tag)
	if tag == ScannedTag {
		return r.Status.Scanned()
	}
	_, found := slices.BinarySearch(r.Tags, tag)
	return found
}

// AllTags returns the free-form tags plus ScannedTag when it applies.
// ScannedTag, if present, comes first.
func (r Record) AllTags() []string {
	if !r.Status.Scanned() {
		return slices.Clone(r.Tags)
	}
	all := make([]string, 0, len(r.Tags)+1)
	all = append(all, ScannedTag)
	return append(all, r.Tags...)
}

// Entry pairs a canonical URL with its record.
type Entry struct {
	// URL is the canonical key.
	URL string `json:"url"`

	// Record is the annotation snapshot.
	Record Record `json:"record"`
}

// record is the mutable state kept inside the registry.
type record struct {
	status    Status
	tags      map[string]struct{}
	firstSeen time.Time
	updatedAt time.Time
}

func newRecord(now time.Time) *record {
	return &record{
		status:    NotScanned,
		tags:      make(map[string]struct{}),
		firstSeen: now,
		updatedAt: now,
	}
}

// snapshot copies the record into its public form.
func (r *record) snapshot() Record {
	tags := make([]string, 0, len(r.tags))
	for tag := range r.tags {
		tags = append(tags, tag)
	}
	slices.Sort(tags)

	return Record{
		Status:    r.status,
		Tags:      tags,
		FirstSeen: r.firstSeen,
		UpdatedAt: r.updatedAt,
	}
}
