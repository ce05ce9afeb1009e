package model

import "errors"

// ReportStatus is the review state of a report
type ReportStatus string

const (
	StatusPending    ReportStatus = "Pending"
	StatusInProgress ReportStatus = "In Progress"
	StatusResolved   ReportStatus = "Resolved"
)

// InitialStatus is assigned to every new report
const InitialStatus = StatusPending

var ErrInvalidStatus = errors.New("status must be one of: Pending, In Progress, Resolved")

var reportStatuses = []ReportStatus{StatusPending, StatusInProgress, StatusResolved}

func ParseStatus(s string) (ReportStatus, error) {
	for _, st := range reportStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", ErrInvalidStatus
}

func (s ReportStatus) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// CanTransitionTo reports whether a report in status s may move to next.
// There is no ordering between states and no terminal state.
func (s ReportStatus) CanTransitionTo(next ReportStatus) bool {
	return s.Valid() && next.Valid()
}

// TransitionStatus validates the requested status against the current one and
// returns the status to persist. On error the caller must leave the record unchanged.
func TransitionStatus(current ReportStatus, requested string) (ReportStatus, error) {
	next, err := ParseStatus(requested)
	if err != nil {
		return "", err
	}
	if !current.CanTransitionTo(next) {
		return "", ErrInvalidStatus
	}
	return next, nil
}
