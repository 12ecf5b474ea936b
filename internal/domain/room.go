package domain

import "strings"

// RoomCode is the short uppercase identifier a room is addressed by.
type RoomCode string

// NormalizeCode folds client input to the canonical uppercase form.
func NormalizeCode(raw string) RoomCode {
	return RoomCode(strings.ToUpper(strings.TrimSpace(raw)))
}
