package applications

// Status is the application state machine value. This service only ever
// writes the three states below; downstream reviewers move records into
// further states (under_review and beyond) that are read back verbatim and
// never rejected.
type Status string

const (
	StatusPending        Status = "pending"
	StatusSubmitted      Status = "submitted"
	StatusPendingHandoff Status = "pending_handoff"
)

// transitions lists the writes this service is allowed to make. pending is
// the only non-terminal state from the pipeline's point of view.
var transitions = map[Status][]Status{
	StatusPending: {StatusSubmitted, StatusPendingHandoff},
}

// Owned reports whether the status is one this service writes.
func (s Status) Owned() bool {
	switch s {
	case StatusPending, StatusSubmitted, StatusPendingHandoff:
		return true
	default:
		return false
	}
}

// CanTransition reports whether the pipeline may move an application from one
// status to another. Transitions out of foreign (reviewer-owned) states are
// never permitted.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
