package audit

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nao1215/scanmark/internal/annotation"
)

// Issue text for the active scan marker.
const (
	// ScannedIssueName is the title of the marker finding.
	ScannedIssueName = "[scanmark] Active Scanned"

	// ScannedIssueDetail is the body of the marker finding.
	ScannedIssueDetail = "This URL has been actively scanned."
)

// ScanCheck marks resources as actively scanned.
type ScanCheck struct {
	registry *annotation.Registry
	logger   *slog.Logger
	newID    func() string
	now      func() time.Time
}

// Option configures a ScanCheck.
type Option func(*ScanCheck)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *ScanCheck) {
		c.logger = logger
	}
}

// WithIDGenerator replaces the finding ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(c *ScanCheck) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// WithClock replaces the time source for ReportedAt.
func WithClock(now func() time.Time) Option {
	return func(c *ScanCheck) {
		if now != nil {
			c.now = now
		}
	}
}

// NewScanCheck creates a ScanCheck writing to reg.
func NewScanCheck(reg *annotation.Registry, opts ...Option) *ScanCheck {
	c := &ScanCheck{
		registry: reg,
		newID:    uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// ActiveAudit records an active audit of url. It returns one finding the
// first time the resource becomes actively scanned and nil afterwards.
func (c *ScanCheck) ActiveAudit(url string) []Finding {
	if !c.registry.MarkActiveScanned(url) {
		return nil
	}

	key := c.registry.Key(url)
	c.logger.Info("active scan recorded", "url", key)

	return []Finding{{
		ID:         c.newID(),
		Name:       ScannedIssueName,
		Detail:     ScannedIssueDetail,
		BaseURL:    key,
		Severity:   SeverityInformation,
		Confidence: ConfidenceCertain,
		ReportedAt: c.now(),
	}}
}
