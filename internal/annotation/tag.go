package annotation

import (
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ScannedTag is the synthetic tag that mirrors the record status.
// It is present whenever the status is not NotScanned and is never stored in
// the free-form tag set.
const ScannedTag = "Scanned"

// defaultVocabulary is the tag list offered to users when nothing is configured.
var defaultVocabulary = []string{ScannedTag, "Param Miner", "XSS", "SQLi", "Custom Tag"}

// DefaultVocabulary returns a copy of the built-in tag vocabulary.
func DefaultVocabulary() []string {
	return slices.Clone(defaultVocabulary)
}

// NormalizeTag trims surrounding whitespace and applies Unicode NFC so that
// the same visible label coming from different tools maps to one tag.
// It returns an empty string for blank labels.
func NormalizeTag(tag string) string {
	return norm.NFC.String(strings.TrimSpace(tag))
}

// Vocabulary is the ordered set of tags offered for selection.
// Tags outside the vocabulary are still accepted by the registry.
type Vocabulary struct {
	tags []string
	set  map[string]struct{}
}

// NewVocabulary builds a vocabulary from tags, normalizing and deduplicating
// them while keeping the first occurrence order. ScannedTag is always
// included as the first entry.
func NewVocabulary(tags ...string) Vocabulary {
	v := Vocabulary{
		tags: []string{ScannedTag},
		set:  map[string]struct{}{ScannedTag: {}},
	}
	for _, tag := range tags {
		tag = NormalizeTag(tag)
		if tag == "" {
			continue
		}
		if _, ok := v.set[tag]; ok {
			continue
		}
		v.set[tag] = struct{}{}
		v.tags = append(v.tags, tag)
	}
	return v
}

// Tags returns the vocabulary in display order.
func (v Vocabulary) Tags() []string {
	return slices.Clone(v.tags)
}

// Contains reports whether tag is part of the vocabulary.
func (v Vocabulary) Contains(tag string) bool {
	_, ok := v.set[NormalizeTag(tag)]
	return ok
}
