package enums

import "fmt"

// ClassSessionStatus captures the lifecycle of a scheduled class.
type ClassSessionStatus string

const (
	ClassSessionStatusScheduled ClassSessionStatus = "scheduled"
	ClassSessionStatusCanceled  ClassSessionStatus = "canceled"
	ClassSessionStatusCompleted ClassSessionStatus = "completed"
)

var validClassSessionStatuses = []ClassSessionStatus{
	ClassSessionStatusScheduled,
	ClassSessionStatusCanceled,
	ClassSessionStatusCompleted,
}

// String implements fmt.Stringer.
func (c ClassSessionStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ClassSessionStatus.
func (c ClassSessionStatus) IsValid() bool {
	for _, candidate := range validClassSessionStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseClassSessionStatus converts raw input into a ClassSessionStatus.
func ParseClassSessionStatus(value string) (ClassSessionStatus, error) {
	for _, candidate := range validClassSessionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid class session status %q", value)
}
