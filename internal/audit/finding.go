package audit

import "time"

// Severity is the impact level attached to a finding.
type Severity int

const (
	// SeverityInformation marks findings with no direct security impact.
	SeverityInformation Severity = iota

	// SeverityLow marks minor issues.
	SeverityLow

	// SeverityMedium marks issues that warrant attention.
	SeverityMedium

	// SeverityHigh marks serious issues.
	SeverityHigh
)

// String returns the upper-case severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInformation:
		return "INFORMATION"
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Confidence is how sure the check is about a finding.
type Confidence int

const (
	// ConfidenceCertain means the finding is a fact, not a guess.
	ConfidenceCertain Confidence = iota

	// ConfidenceFirm means the finding is very likely.
	ConfidenceFirm

	// ConfidenceTentative means the finding needs manual confirmation.
	ConfidenceTentative
)

// String returns the upper-case confidence name.
func (c Confidence) String() string {
	switch c {
	case ConfidenceCertain:
		return "CERTAIN"
	case ConfidenceFirm:
		return "FIRM"
	case ConfidenceTentative:
		return "TENTATIVE"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Confidence) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Finding is an issue raised by the scan check.
type Finding struct {
	// ID uniquely identifies the finding.
	ID string `json:"id"`

	// Name is the issue title shown in the host issue list.
	Name string `json:"name"`

	// Detail describes the issue.
	Detail string `json:"detail"`

	// Remediation is the suggested fix. Empty for informational findings.
	Remediation string `json:"remediation,omitempty"`

	// BaseURL is the canonical URL the finding belongs to.
	BaseURL string `json:"baseUrl"`

	// Severity is the impact level.
	Severity Severity `json:"severity"`

	// Confidence is how sure the check is.
	Confidence Confidence `json:"confidence"`

	// ReportedAt is when the finding was created.
	ReportedAt time.Time `json:"reportedAt"`
}
