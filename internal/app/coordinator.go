package app

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/huddlechat/huddle/internal/core"
	"github.com/huddlechat/huddle/internal/domain"
)

// Coordinator runs the create/join/leave/disconnect protocol against the
// Store and Directory and performs broadcast fan-out.
//
// All structural mutations and their fan-out run under a single mutex, so
// the sequence of events observed by a room's members matches the order
// in which the coordinator accepted the corresponding mutations.
type Coordinator struct {
	mu     sync.Mutex
	store  *Store
	dir    *Directory
	policy Policy

	gracePeriod time.Duration
	grace       map[domain.RoomCode]*time.Timer
}

func NewCoordinator(store *Store, dir *Directory, policy Policy, gracePeriod time.Duration) *Coordinator {
	return &Coordinator{
		store:       store,
		dir:         dir,
		policy:      policy,
		gracePeriod: gracePeriod,
		grace:       make(map[domain.RoomCode]*time.Timer),
	}
}

type joinedRoomEvent struct {
	Type     string           `json:"type"`
	RoomCode domain.RoomCode  `json:"roomCode"`
	Messages []domain.Message `json:"messages"`
}

type memberCountEvent struct {
	Type     string          `json:"type"`
	RoomCode domain.RoomCode `json:"roomCode"`
	Count    int             `json:"count"`
}

type messageEvent struct {
	Type    string         `json:"type"`
	Message domain.Message `json:"message"`
}

// Create allocates a new empty room and returns its code. The room is
// eligible for reaping like any other empty room until someone joins.
func (c *Coordinator) Create() (domain.RoomCode, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	room, err := c.store.CreateRoom()
	if err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Msg("room allocation failed")
		return "", err
	}
	log.Info().Str("module", "app.coordinator").Str("room", string(room.Code())).Msg("room created")
	return room.Code(), nil
}

// DeclareIdentity records the client-declared identity for a connection.
func (c *Coordinator) DeclareIdentity(id core.ConnID, identity domain.Identity) {
	c.dir.Bind(id, identity)
}

// Join adds the connection to the room, replies to the joiner with the
// room code plus full history, and announces the new member count to the
// whole room. Unknown codes surface core.ErrRoomNotFound to the caller;
// no room state is touched.
func (c *Coordinator) Join(code domain.RoomCode, id core.ConnID, conn core.SignalConnection) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	room, ok := c.store.Get(code)
	if !ok {
		return core.ErrRoomNotFound
	}
	c.cancelGraceLocked(code)
	room.AddMember(id, conn)

	if frame, ok := encode(joinedRoomEvent{Type: "joined-room", RoomCode: code, Messages: room.History()}); ok {
		if err := conn.TrySend(frame); err != nil {
			log.Warn().Err(err).Str("module", "app.coordinator").Str("conn", string(id)).Msg("joined-room reply dropped")
		}
	}
	c.announceCountLocked(room)
	return nil
}

// Message appends a new message and fans it out to every member, sender
// included. An unknown code is silently dropped: best effort, not an
// error, not a retry candidate.
func (c *Coordinator) Message(code domain.RoomCode, content, senderID, senderName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	room, ok := c.store.Get(code)
	if !ok {
		log.Debug().Str("module", "app.coordinator").Str("room", string(code)).Msg("message for unknown room dropped")
		return
	}
	msg := domain.NewMessage(content, senderID, senderName)
	room.Append(msg)
	frame, ok := encode(messageEvent{Type: "message", Message: msg})
	if !ok {
		return
	}
	res := room.Broadcast(frame)
	c.applyBackpressureLocked(room, res)
}

// Leave removes the connection immediately. An explicit leave is an
// unambiguous signal, so a room emptied this way is deleted synchronously
// with no grace period.
func (c *Coordinator) Leave(code domain.RoomCode, id core.ConnID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	room, ok := c.store.Get(code)
	if !ok || !room.HasMember(id) {
		return
	}
	room.RemoveMember(id)
	if room.MemberCount() == 0 {
		c.cancelGraceLocked(code)
		c.store.Delete(code)
		log.Info().Str("module", "app.coordinator").Str("room", string(code)).Msg("room deleted on last leave")
		return
	}
	c.announceCountLocked(room)
}

// Disconnect handles a closed transport connection. The connection is
// removed from every room it was a member of and the accurate new count
// is announced. A room emptied this way is not deleted yet: deletion is
// deferred behind a grace timer so a transient drop (page reload) can
// rejoin before the room is destroyed.
func (c *Coordinator) Disconnect(id core.ConnID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	identity, _ := c.dir.Identity(id)
	c.dir.Unbind(id)

	c.store.ForEach(func(room core.RoomService) {
		if !room.HasMember(id) {
			return
		}
		room.RemoveMember(id)
		if room.MemberCount() == 0 {
			c.scheduleGraceLocked(room.Code())
			return
		}
		c.announceCountLocked(room)
	})
	log.Info().Str("module", "app.coordinator").Str("conn", string(id)).Str("identity", string(identity)).Msg("connection closed")
}

// SweepIdle deletes every room that has had zero members for longer than
// threshold. It never deletes a room someone is still in.
func (c *Coordinator) SweepIdle(threshold time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	cutoff := time.Now().Add(-threshold)

	var victims []domain.RoomCode
	c.store.ForEach(func(room core.RoomService) {
		if room.MemberCount() == 0 && room.LastActive().Before(cutoff) {
			victims = append(victims, room.Code())
		}
	})
	for _, code := range victims {
		c.cancelGraceLocked(code)
		c.store.Delete(code)
		log.Info().Str("module", "app.coordinator").Str("room", string(code)).Msg("idle room reaped")
	}
	return len(victims)
}

// Close stops all pending grace timers. Rooms are not flushed; the store
// dies with the process.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for code, timer := range c.grace {
		timer.Stop()
		delete(c.grace, code)
	}
}

func (c *Coordinator) announceCountLocked(room core.RoomService) {
	frame, ok := encode(memberCountEvent{Type: "member-count", RoomCode: room.Code(), Count: room.MemberCount()})
	if !ok {
		return
	}
	res := room.Broadcast(frame)
	c.applyBackpressureLocked(room, res)
}

func (c *Coordinator) applyBackpressureLocked(room core.RoomService, res core.PublishResult) {
	if c.policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		switch c.policy.OnBackpressure(room, slow) {
		case KickMember:
			room.RemoveMember(slow)
			if room.MemberCount() == 0 {
				c.scheduleGraceLocked(room.Code())
			}
			log.Warn().Str("module", "app.coordinator").Str("conn", string(slow)).Str("room", string(room.Code())).Msg("slow member kicked")
		case DropFrame, NoAction:
		}
	}
}

// scheduleGraceLocked arms the deferred-deletion timer for an emptied
// room. At fire time membership is re-checked; a rejoin in the meantime
// keeps the room alive even if the cancel lost the race.
func (c *Coordinator) scheduleGraceLocked(code domain.RoomCode) {
	if _, armed := c.grace[code]; armed {
		return
	}
	c.grace[code] = time.AfterFunc(c.gracePeriod, func() { c.expireGrace(code) })
	log.Info().Str("module", "app.coordinator").Str("room", string(code)).Dur("grace", c.gracePeriod).Msg("grace timer armed")
}

func (c *Coordinator) cancelGraceLocked(code domain.RoomCode) {
	if timer, ok := c.grace[code]; ok {
		timer.Stop()
		delete(c.grace, code)
	}
}

func (c *Coordinator) expireGrace(code domain.RoomCode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.grace, code)
	room, ok := c.store.Get(code)
	if !ok || room.MemberCount() > 0 {
		return
	}
	c.store.Delete(code)
	log.Info().Str("module", "app.coordinator").Str("room", string(code)).Msg("room deleted after grace period")
}

func encode(v any) (core.Frame, bool) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.coordinator").Msg("event marshal")
		return nil, false
	}
	return b, true
}
