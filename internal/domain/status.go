package domain

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of an import or build
type Status string

const (
	StatusQueued     Status = "QUEUED"
	StatusBuilding   Status = "BUILDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusSucceeded  Status = "SUCCEEDED"
	StatusFailed     Status = "FAILED"
	StatusCancelled  Status = "CANCELLED"
)

// AllStatuses lists every status in lifecycle order
var AllStatuses = []Status{
	StatusQueued,
	StatusBuilding,
	StatusInProgress,
	StatusSucceeded,
	StatusFailed,
	StatusCancelled,
}

// ParseStatus accepts a status in any letter case
func ParseStatus(s string) (Status, error) {
	candidate := Status(strings.ToUpper(strings.TrimSpace(s)))
	for _, st := range AllStatuses {
		if st == candidate {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// IsFailure reports whether the item ended without success. Cancelled items
// count as failures for batch progress and retry.
func (s Status) IsFailure() bool {
	return s == StatusFailed || s == StatusCancelled
}

// IsSuccess reports whether the item finished successfully
func (s Status) IsSuccess() bool {
	return s == StatusSucceeded
}

// IsTerminal reports whether the item will not change status any more
func (s Status) IsTerminal() bool {
	return s.IsFailure() || s.IsSuccess()
}

// Label is the human form shown in lists
func (s Status) Label() string {
	switch s {
	case StatusInProgress:
		return "In progress"
	case "":
		return "-"
	default:
		str := string(s)
		return str[:1] + strings.ToLower(str[1:])
	}
}
