// Package activity buckets members into engagement tiers.
package activity

import "fmt"

// Level is an engagement tier. Levels are ordered: Inactive < New < Active < Power.
type Level int

// Levels.
const (
	Inactive Level = iota
	New
	Active
	Power
)

// Thresholds (inclusive lower bounds on the tool-use count).
const (
	NewMinEvents    = 1
	ActiveMinEvents = 3
	PowerMinEvents  = 10
)

// Classify maps an event count to a level:
// 0 inactive, 1-2 new, 3-9 active, 10+ power.
// Negative counts are invalid input and classify as Inactive.
func Classify(count int) Level {
	switch {
	case count >= PowerMinEvents:
		return Power
	case count >= ActiveMinEvents:
		return Active
	case count >= NewMinEvents:
		return New
	default:
		return Inactive
	}
}

// Levels returns every level in engagement order.
func Levels() []Level {
	return []Level{Inactive, New, Active, Power}
}

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case Inactive:
		return "inactive"
	case New:
		return "new"
	case Active:
		return "active"
	case Power:
		return "power"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Label returns a display name for reports.
func (l Level) Label() string {
	switch l {
	case Inactive:
		return "Inactive"
	case New:
		return "New"
	case Active:
		return "Active"
	case Power:
		return "Power user"
	default:
		return l.String()
	}
}

// MarshalText encodes the level as its name.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ParseLevel parses a level name.
func ParseLevel(s string) (Level, error) {
	for _, l := range Levels() {
		if l.String() == s {
			return l, nil
		}
	}
	return Inactive, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// UnmarshalText decodes a level name.
func (l *Level) UnmarshalText(b []byte) error {
	parsed, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
