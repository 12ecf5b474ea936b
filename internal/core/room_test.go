package core

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huddlechat/huddle/internal/domain"
)

type stubConn struct {
	mu     sync.Mutex
	frames []Frame
	fail   bool
}

func (s *stubConn) TrySend(f Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("send buffer full")
	}
	s.frames = append(s.frames, f)
	return nil
}

func (s *stubConn) Close() {}

func (s *stubConn) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

func TestRoomMembership(t *testing.T) {
	room := NewRoom("A1B2C3")

	assert.Equal(t, domain.RoomCode("A1B2C3"), room.Code())
	assert.Equal(t, 0, room.MemberCount())
	assert.False(t, room.HasMember("c1"))

	room.AddMember("c1", &stubConn{})
	room.AddMember("c2", &stubConn{})
	assert.Equal(t, 2, room.MemberCount())
	assert.True(t, room.HasMember("c1"))

	room.RemoveMember("c1")
	assert.Equal(t, 1, room.MemberCount())
	assert.False(t, room.HasMember("c1"))

	// removing an absent member is a no-op
	room.RemoveMember("c1")
	assert.Equal(t, 1, room.MemberCount())
}

func TestRoomBroadcastIncludesSender(t *testing.T) {
	room := NewRoom("A1B2C3")
	sender := &stubConn{}
	other := &stubConn{}
	room.AddMember("sender", sender)
	room.AddMember("other", other)

	res := room.Broadcast(Frame(`{"type":"message"}`))

	assert.Equal(t, 2, res.SentTo)
	assert.Empty(t, res.Dropped)
	assert.Equal(t, 1, sender.count())
	assert.Equal(t, 1, other.count())
}

func TestRoomBroadcastReportsDropped(t *testing.T) {
	room := NewRoom("A1B2C3")
	ok := &stubConn{}
	slow := &stubConn{fail: true}
	room.AddMember("ok", ok)
	room.AddMember("slow", slow)

	res := room.Broadcast(Frame(`{}`))

	assert.Equal(t, 1, res.SentTo)
	require.Len(t, res.Dropped, 1)
	assert.Equal(t, ConnID("slow"), res.Dropped[0])
	// a dropped send must not evict the member here; that is policy
	assert.Equal(t, 2, room.MemberCount())
}

func TestRoomHistoryIsAppendOnlyCopy(t *testing.T) {
	room := NewRoom("A1B2C3")
	room.Append(domain.NewMessage("first", "u1", "alice"))
	room.Append(domain.NewMessage("second", "u2", "bob"))

	history := room.History()
	require.Len(t, history, 2)
	assert.Equal(t, "first", history[0].Content)
	assert.Equal(t, "second", history[1].Content)

	// mutating the returned slice must not touch the room
	history[0].Content = "tampered"
	assert.Equal(t, "first", room.History()[0].Content)
}

func TestRoomLastActiveAdvances(t *testing.T) {
	room := NewRoom("A1B2C3")
	before := room.LastActive()

	time.Sleep(5 * time.Millisecond)
	room.Touch()
	afterTouch := room.LastActive()
	assert.True(t, afterTouch.After(before))

	time.Sleep(5 * time.Millisecond)
	room.Append(domain.NewMessage("hi", "u1", "alice"))
	assert.True(t, room.LastActive().After(afterTouch))
}
