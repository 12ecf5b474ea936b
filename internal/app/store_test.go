package app

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huddlechat/huddle/internal/core"
	"github.com/huddlechat/huddle/internal/domain"
)

var codePattern = regexp.MustCompile(`^[0-9A-F]{6}$`)

func TestCreateRoomCodes(t *testing.T) {
	store := NewStore()

	seen := make(map[domain.RoomCode]bool)
	for range 50 {
		room, err := store.CreateRoom()
		require.NoError(t, err)
		code := room.Code()
		assert.Regexp(t, codePattern, string(code))
		assert.False(t, seen[code], "code %s allocated twice", code)
		seen[code] = true

		got, ok := store.Get(code)
		require.True(t, ok)
		assert.Equal(t, 0, got.MemberCount())
	}
	assert.Equal(t, 50, store.Len())
}

func TestGetUnknownCode(t *testing.T) {
	store := NewStore()
	_, ok := store.Get("ZZZZZZ")
	assert.False(t, ok)
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := NewStore()
	room, err := store.CreateRoom()
	require.NoError(t, err)

	store.Delete(room.Code())
	_, ok := store.Get(room.Code())
	assert.False(t, ok)

	// deleting an absent code is a no-op
	store.Delete(room.Code())
	assert.Equal(t, 0, store.Len())
}

func TestForEachVisitsAllRooms(t *testing.T) {
	store := NewStore()
	for range 3 {
		_, err := store.CreateRoom()
		require.NoError(t, err)
	}

	visited := 0
	store.ForEach(func(_ core.RoomService) { visited++ })
	assert.Equal(t, 3, visited)
}
