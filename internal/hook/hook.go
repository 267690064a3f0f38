// Package hook exposes the registry to host integrations as plain function
// values, one per kind of event a host tool reports.
package hook

import (
	"log/slog"

	"github.com/nao1215/scanmark/internal/annotation"
)

// URLFunc handles an event about a single URL.
type URLFunc func(url string)

// TagFunc handles a tag selection for a URL.
type TagFunc func(url, tag string)

// Hooks bundles the callbacks a host integration invokes.
type Hooks struct {
	// OnURLObserved is called for every passively observed request.
	OnURLObserved URLFunc

	// OnFindingReported is called when an active audit reports a finding.
	OnFindingReported URLFunc

	// OnManualMark is called when a user marks a request as scanned.
	OnManualMark URLFunc

	// OnTagToggle is called when a user picks a tag for a request.
	OnTagToggle TagFunc
}

// New binds hooks to reg. A nil logger falls back to slog.Default.
func New(reg *annotation.Registry, logger *slog.Logger) Hooks {
	if logger == nil {
		logger = slog.Default()
	}

	return Hooks{
		OnURLObserved: func(url string) {
			if reg.Observe(url) {
				logger.Debug("new resource observed", "url", reg.Key(url))
			}
		},
		OnFindingReported: func(url string) {
			if reg.MarkActiveScanned(url) {
				logger.Info("resource actively scanned", "url", reg.Key(url))
			}
		},
		OnManualMark: func(url string) {
			reg.MarkManual(url)
			logger.Debug("resource marked as scanned", "url", reg.Key(url))
		},
		OnTagToggle: func(url, tag string) {
			if !reg.Vocabulary().Contains(tag) {
				logger.Debug("tag outside vocabulary", "url", reg.Key(url), "tag", tag)
			}
			reg.ToggleTag(url, tag)
		},
	}
}
