package enums

import "fmt"

// MoveStatus maps to the move_status enum in Postgres.
//
// Transitions are forward-only: draft -> ready|waiting|done|cancelled,
// ready -> done|cancelled, waiting -> done. done and cancelled are terminal.
type MoveStatus string

const (
	MoveStatusDraft     MoveStatus = "draft"
	MoveStatusReady     MoveStatus = "ready"
	MoveStatusWaiting   MoveStatus = "waiting"
	MoveStatusDone      MoveStatus = "done"
	MoveStatusCancelled MoveStatus = "cancelled"
)

var validMoveStatuses = []MoveStatus{
	MoveStatusDraft,
	MoveStatusReady,
	MoveStatusWaiting,
	MoveStatusDone,
	MoveStatusCancelled,
}

var moveStatusTransitions = map[MoveStatus][]MoveStatus{
	MoveStatusDraft:   {MoveStatusReady, MoveStatusWaiting, MoveStatusDone, MoveStatusCancelled},
	MoveStatusReady:   {MoveStatusDone, MoveStatusCancelled},
	MoveStatusWaiting: {MoveStatusDone},
}

// String implements fmt.Stringer.
func (s MoveStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known MoveStatus.
func (s MoveStatus) IsValid() bool {
	for _, candidate := range validMoveStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s MoveStatus) IsTerminal() bool {
	return s == MoveStatusDone || s == MoveStatusCancelled
}

// CanTransitionTo reports whether the state machine allows moving to next.
func (s MoveStatus) CanTransitionTo(next MoveStatus) bool {
	for _, candidate := range moveStatusTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// PreValidationStatuses lists the statuses a move may hold before validation.
func PreValidationStatuses() []MoveStatus {
	return []MoveStatus{MoveStatusDraft, MoveStatusReady, MoveStatusWaiting}
}

// ParseMoveStatus converts raw input into a MoveStatus.
func ParseMoveStatus(value string) (MoveStatus, error) {
	for _, candidate := range validMoveStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid move status %q", value)
}
