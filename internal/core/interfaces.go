package core

import (
	"errors"
	"time"

	"github.com/huddlechat/huddle/internal/domain"
)

// Frame is a marshaled outbound event, ready for the wire.
type Frame []byte

// ConnID identifies one live transport connection. It is valid only for
// the lifetime of that physical connection; a reconnecting client gets a
// fresh one.
type ConnID string

var (
	// ErrRoomNotFound is reported to the single requesting connection,
	// never fatal, never retried by the server.
	ErrRoomNotFound = errors.New("room not found")
	// ErrCodeSpaceFull means code allocation exhausted its retries.
	ErrCodeSpaceFull = errors.New("room code space exhausted")
)

// SignalConnection abstracts the per-member messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// PublishResult reports delivery stats/backpressure to the coordinator.
type PublishResult struct {
	SentTo  int
	Dropped []ConnID
}

// RoomService is the core-facing API of a room. It owns the membership
// set and message history but never touches transport resources.
type RoomService interface {
	Code() domain.RoomCode
	MemberCount() int
	HasMember(ConnID) bool
	AddMember(ConnID, SignalConnection)
	RemoveMember(ConnID)
	Append(domain.Message)
	History() []domain.Message
	LastActive() time.Time
	Touch()
	Broadcast(Frame) PublishResult
}

// RoomStore owns the code→room mapping. Absence on Get is not an error;
// callers interpret it as "room not found".
type RoomStore interface {
	CreateRoom() (RoomService, error)
	Get(domain.RoomCode) (RoomService, bool)
	Delete(domain.RoomCode)
	ForEach(func(RoomService))
	Len() int
}
