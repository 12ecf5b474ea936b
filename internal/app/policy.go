package app

import "github.com/huddlechat/huddle/internal/core"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DropFrame
	KickMember
)

// Policy decides what happens to a member whose send buffer was full
// during a broadcast.
type Policy interface {
	OnBackpressure(room core.RoomService, id core.ConnID) BackpressureAction
}

// BestEffortPolicy drops the frame and moves on. Delivery here is
// best effort while connected; a slow reader is not evicted.
type BestEffortPolicy struct{}

func (BestEffortPolicy) OnBackpressure(room core.RoomService, id core.ConnID) BackpressureAction {
	return DropFrame
}
