package app

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/huddlechat/huddle/internal/core"
	"github.com/huddlechat/huddle/internal/domain"
)

const (
	codeBytes    = 3
	codeAttempts = 5
)

// Store is the single in-memory authority for live rooms.
type Store struct {
	mu    sync.RWMutex
	rooms map[domain.RoomCode]core.RoomService
}

func NewStore() *Store {
	return &Store{rooms: make(map[domain.RoomCode]core.RoomService)}
}

// CreateRoom allocates a fresh code and inserts an empty room. Collisions
// are retried a bounded number of times; exhaustion surfaces
// core.ErrCodeSpaceFull.
func (s *Store) CreateRoom() (core.RoomService, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for range codeAttempts {
		code, err := generateCode()
		if err != nil {
			return nil, err
		}
		if _, taken := s.rooms[code]; taken {
			continue
		}
		room := core.NewRoom(code)
		s.rooms[code] = room
		return room, nil
	}
	return nil, core.ErrCodeSpaceFull
}

func (s *Store) Get(code domain.RoomCode) (core.RoomService, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[code]
	return room, ok
}

// Delete is idempotent; removing an absent code is a no-op.
func (s *Store) Delete(code domain.RoomCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
}

// ForEach visits every live room under the read lock. fn must not call
// back into Delete or CreateRoom.
func (s *Store) ForEach(fn func(core.RoomService)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, room := range s.rooms {
		fn(room)
	}
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// generateCode renders random bytes as uppercase hex. Sized to avoid
// accidental collision, not to resist guessing.
func generateCode() (domain.RoomCode, error) {
	buf := make([]byte, codeBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return domain.RoomCode(strings.ToUpper(hex.EncodeToString(buf))), nil
}
