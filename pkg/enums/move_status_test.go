package enums

import "testing"

func TestMoveStatusTransitions(t *testing.T) {
	cases := []struct {
		from    MoveStatus
		to      MoveStatus
		allowed bool
	}{
		{MoveStatusDraft, MoveStatusReady, true},
		{MoveStatusDraft, MoveStatusWaiting, true},
		{MoveStatusDraft, MoveStatusDone, true},
		{MoveStatusDraft, MoveStatusCancelled, true},
		{MoveStatusReady, MoveStatusDone, true},
		{MoveStatusReady, MoveStatusCancelled, true},
		{MoveStatusWaiting, MoveStatusDone, true},
		{MoveStatusWaiting, MoveStatusCancelled, false},
		{MoveStatusDone, MoveStatusDraft, false},
		{MoveStatusDone, MoveStatusCancelled, false},
		{MoveStatusCancelled, MoveStatusDone, false},
		{MoveStatusReady, MoveStatusDraft, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Fatalf("%s -> %s: expected allowed=%v got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestMoveStatusTerminal(t *testing.T) {
	for _, status := range []MoveStatus{MoveStatusDone, MoveStatusCancelled} {
		if !status.IsTerminal() {
			t.Fatalf("expected %s to be terminal", status)
		}
	}
	for _, status := range PreValidationStatuses() {
		if status.IsTerminal() {
			t.Fatalf("expected %s to be non-terminal", status)
		}
	}
}

func TestParseMoveStatusRejectsUnknown(t *testing.T) {
	if _, err := ParseMoveStatus("validated"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
