package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huddlechat/huddle/internal/domain"
)

func TestDirectoryBindAndLookup(t *testing.T) {
	dir := NewDirectory()

	_, ok := dir.Identity("c1")
	assert.False(t, ok)

	dir.Bind("c1", "alice")
	got, ok := dir.Identity("c1")
	require.True(t, ok)
	assert.Equal(t, domain.Identity("alice"), got)
}

func TestDirectoryBindOverwrites(t *testing.T) {
	dir := NewDirectory()
	dir.Bind("c1", "alice")
	dir.Bind("c1", "alice2")

	got, ok := dir.Identity("c1")
	require.True(t, ok)
	assert.Equal(t, domain.Identity("alice2"), got)
	assert.Equal(t, 1, dir.Len())
}

func TestDirectoryAllowsDuplicateIdentities(t *testing.T) {
	// identity is a display convenience, not an auth mechanism
	dir := NewDirectory()
	dir.Bind("c1", "alice")
	dir.Bind("c2", "alice")
	assert.Equal(t, 2, dir.Len())
}

func TestDirectoryUnbind(t *testing.T) {
	dir := NewDirectory()
	dir.Bind("c1", "alice")
	dir.Unbind("c1")

	_, ok := dir.Identity("c1")
	assert.False(t, ok)

	// unbinding an absent connection is a no-op
	dir.Unbind("c1")
	assert.Equal(t, 0, dir.Len())
}
