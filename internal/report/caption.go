package report

import (
	"strings"

	"github.com/nao1215/scanmark/internal/annotation"
)

// CaptionPrefix starts every annotation caption.
const CaptionPrefix = "Annotation: "

// Caption returns the one-line annotation text shown next to a request.
// A URL without a record reads as not scanned.
func Caption(rec annotation.Record, found bool) string {
	if !found {
		return CaptionPrefix + annotation.NotScanned.String()
	}
	return CaptionPrefix + rec.Status.String()
}

// TagLabel pairs a tag with the colour it is drawn in.
type TagLabel struct {
	Tag   string
	Color string
	Emoji string
}

// tagColors holds the colours of the built-in tags.
var tagColors = map[string]TagLabel{
	annotation.ScannedTag: {Tag: annotation.ScannedTag, Color: "#4CAF50", Emoji: "🟢"},
	"Param Miner":         {Tag: "Param Miner", Color: "#2196F3", Emoji: "🔵"},
	"XSS":                 {Tag: "XSS", Color: "#F44336", Emoji: "🔴"},
	"SQLi":                {Tag: "SQLi", Color: "#FF9800", Emoji: "🟠"},
}

// LabelFor returns the colour label for tag. Unknown tags are purple.
func LabelFor(tag string) TagLabel {
	if label, ok := tagColors[tag]; ok {
		return label
	}
	return TagLabel{Tag: tag, Color: "#9C27B0", Emoji: "🟣"}
}

// String renders the label as "<emoji> <tag>".
func (l TagLabel) String() string {
	return l.Emoji + " " + l.Tag
}

// formatTags joins tags for single-line display, "-" when there are none.
func formatTags(tags []string, label bool) string {
	if len(tags) == 0 {
		return "-"
	}
	if !label {
		return strings.Join(tags, ", ")
	}
	parts := make([]string, len(tags))
	for i, tag := range tags {
		parts[i] = LabelFor(tag).String()
	}
	return strings.Join(parts, " ")
}
