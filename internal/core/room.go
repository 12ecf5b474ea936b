package core

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/huddlechat/huddle/internal/domain"
)

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned connections.
type roomImpl struct {
	code domain.RoomCode

	mu         sync.RWMutex
	members    map[ConnID]SignalConnection
	history    []domain.Message
	lastActive time.Time
}

func NewRoom(code domain.RoomCode) RoomService {
	return &roomImpl{
		code:       code,
		members:    make(map[ConnID]SignalConnection),
		lastActive: time.Now(),
	}
}

func (r *roomImpl) Code() domain.RoomCode { return r.code }

func (r *roomImpl) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

func (r *roomImpl) HasMember(id ConnID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.members[id]
	return ok
}

func (r *roomImpl) AddMember(id ConnID, conn SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[id] = conn
	r.lastActive = time.Now()
	log.Info().Str("module", "core.room").Str("room", string(r.code)).Str("conn", string(id)).Msg("member added")
}

func (r *roomImpl) RemoveMember(id ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, id)
	r.lastActive = time.Now()
	log.Info().Str("module", "core.room").Str("room", string(r.code)).Str("conn", string(id)).Msg("member removed")
}

func (r *roomImpl) Append(msg domain.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, msg)
	r.lastActive = time.Now()
}

// History returns a copy; the backing slice stays append-only.
func (r *roomImpl) History() []domain.Message {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Message, len(r.history))
	copy(out, r.history)
	return out
}

func (r *roomImpl) LastActive() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastActive
}

func (r *roomImpl) Touch() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastActive = time.Now()
}

// Broadcast fans a frame out to every member, sender included.
// Delivery is best effort; members whose send buffer is full are
// reported as dropped, not waited on.
func (r *roomImpl) Broadcast(frame Frame) PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := PublishResult{}
	for id, conn := range r.members {
		if err := conn.TrySend(frame); err != nil {
			res.Dropped = append(res.Dropped, id)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "core.room").Str("room", string(r.code)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}
