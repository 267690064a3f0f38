package annotation

import "fmt"

// Status describes how a resource came to be considered scanned.
//
// Values are ordered by information content, so a higher value must never be
// replaced by a lower one except through an explicit Scanned toggle on a
// manually marked record.
type Status int

const (
	// NotScanned means the resource was observed or tagged but never marked.
	NotScanned Status = iota

	// ScannedManual means a user marked the resource as scanned.
	ScannedManual

	// ScannedActive means an active audit ran against the resource.
	ScannedActive
)

// String returns the label shown to users.
func (s Status) String() string {
	switch s {
	case NotScanned:
		return "Not Scanned"
	case ScannedManual:
		return "Scanned (manual)"
	case ScannedActive:
		return "Scanned (active scan)"
	default:
		return "Unknown"
	}
}

// Key returns a stable identifier suitable for storage and JSON output.
func (s Status) Key() string {
	switch s {
	case NotScanned:
		return "not_scanned"
	case ScannedManual:
		return "manual"
	case ScannedActive:
		return "active"
	default:
		return "unknown"
	}
}

// Scanned reports whether the synthetic Scanned tag applies.
func (s Status) Scanned() bool {
	return s == ScannedManual || s == ScannedActive
}

// MarshalText implements encoding.TextMarshaler using Key.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.Key()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStatus converts a value produced by Key back into a Status.
func ParseStatus(key string) (Status, error) {
	switch key {
	case "not_scanned":
		return NotScanned, nil
	case "manual":
		return ScannedManual, nil
	case "active":
		return ScannedActive, nil
	default:
		return NotScanned, fmt.Errorf("unknown status %q", key)
	}
}

// Statuses returns all statuses from least to most informative.
func Statuses() []Status {
	return []Status{NotScanned, ScannedManual, ScannedActive}
}
