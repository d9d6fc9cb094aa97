package entity

import (
	"errors"
	"fmt"
)

var ErrInvalidTransition = errors.New("invalid approval status transition")

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// approved and rejected are terminal
var approvalTransitions = map[ApprovalStatus][]ApprovalStatus{
	ApprovalPending: {ApprovalApproved, ApprovalRejected},
}

func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

func ParseApprovalStatus(s string) (ApprovalStatus, error) {
	status := ApprovalStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown approval status %q", s)
	}
	return status, nil
}

func (s ApprovalStatus) IsTerminal() bool {
	return len(approvalTransitions[s]) == 0
}

func (s ApprovalStatus) AllowsLogin() bool {
	return s == ApprovalApproved
}

func (s ApprovalStatus) CanTransitionTo(to ApprovalStatus) bool {
	for _, allowed := range approvalTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// TransitionTo returns the next status or ErrInvalidTransition.
func (s ApprovalStatus) TransitionTo(to ApprovalStatus) (ApprovalStatus, error) {
	if !s.CanTransitionTo(to) {
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, to)
	}
	return to, nil
}
