package enums

import "fmt"

// MoveType maps to the move_type enum in Postgres.
type MoveType string

const (
	MoveTypeReceipt    MoveType = "receipt"
	MoveTypeDelivery   MoveType = "delivery"
	MoveTypeInternal   MoveType = "internal"
	MoveTypeAdjustment MoveType = "adjustment"
)

var validMoveTypes = []MoveType{
	MoveTypeReceipt,
	MoveTypeDelivery,
	MoveTypeInternal,
	MoveTypeAdjustment,
}

// String implements fmt.Stringer.
func (t MoveType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known MoveType.
func (t MoveType) IsValid() bool {
	for _, candidate := range validMoveTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseMoveType converts raw input into a MoveType.
func ParseMoveType(value string) (MoveType, error) {
	for _, candidate := range validMoveTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid move type %q", value)
}

// ReferencePrefix returns the short code used in move references (WH/IN/0001).
func (t MoveType) ReferencePrefix() string {
	switch t {
	case MoveTypeReceipt:
		return "IN"
	case MoveTypeDelivery:
		return "OUT"
	case MoveTypeInternal:
		return "INT"
	case MoveTypeAdjustment:
		return "ADJ"
	}
	return "MV"
}
