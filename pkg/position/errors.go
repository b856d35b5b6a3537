package position

import "fmt"

// PositionError reports a malformed SFEN or a catalogue/board consistency
// violation detected while building a Position.
type PositionError struct {
	Msg string
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("position: %v", e.Msg)
}

// MoveError reports an illegal move, drop or promotion choice attempted
// against a Position.
type MoveError struct {
	Msg string
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("move: %v", e.Msg)
}
