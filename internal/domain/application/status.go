package application

import "strings"

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusCompleted  Status = "completed"
)

// StatusAll is the filter value that disables status filtering.
const StatusAll = "all"

var allStatuses = []Status{StatusPending, StatusInProgress, StatusApproved, StatusRejected, StatusCompleted}

// Statuses returns the enumeration in display order.
func Statuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

func (s Status) Valid() bool {
	for _, v := range allStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ParseStatus accepts the enumeration values case-insensitively.
func ParseStatus(raw string) (Status, bool) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	return s, s.Valid()
}

// CanTransition reports whether from -> to is permitted. The graph is complete:
// any valid status may move to any valid status, including back out of
// rejected or completed. Whether that is intended is an open product question.
func CanTransition(from, to Status) bool {
	return from.Valid() && to.Valid()
}
