package enums

import "fmt"

// LifecycleStatus tracks whether a subscription's active period has concluded,
// independent of whether it has been fully paid.
type LifecycleStatus string

const (
	LifecycleStatusInProgress LifecycleStatus = "in_progress"
	LifecycleStatusCompleted  LifecycleStatus = "completed"
	LifecycleStatusExpired    LifecycleStatus = "expired"
)

var validLifecycleStatuses = []LifecycleStatus{
	LifecycleStatusInProgress,
	LifecycleStatusCompleted,
	LifecycleStatusExpired,
}

// String implements fmt.Stringer.
func (l LifecycleStatus) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LifecycleStatus.
func (l LifecycleStatus) IsValid() bool {
	for _, candidate := range validLifecycleStatuses {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLifecycleStatus converts raw input into a LifecycleStatus.
func ParseLifecycleStatus(value string) (LifecycleStatus, error) {
	for _, candidate := range validLifecycleStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid lifecycle status %q", value)
}
