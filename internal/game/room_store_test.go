package game

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoomCodes(t *testing.T) {
	s := NewRoomStore()
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		r := s.CreateRoom()
		require.Len(t, r.Code, roomCodeLength)
		for _, ch := range r.Code {
			assert.True(t, strings.ContainsRune(roomCodeAlphabet, ch), "code %q uses a forbidden rune", r.Code)
		}
		assert.False(t, seen[r.Code], "duplicate room code %s", r.Code)
		seen[r.Code] = true
	}
}

func TestGetAndDeleteRoom(t *testing.T) {
	s := NewRoomStore()
	r := s.CreateRoom()

	got, ok := s.GetRoom(r.Code)
	require.True(t, ok)
	assert.Same(t, r, got)

	s.DeleteRoom(r.Code)
	_, ok = s.GetRoom(r.Code)
	assert.False(t, ok)
}

func TestRoundEndTearsRoomDown(t *testing.T) {
	s := NewRoomStore()
	r := s.CreateRoom()
	mb := newMockBroadcaster()
	r.BroadcastToPlayerFn = mb.toPlayer
	winner := r.Join(uuid.New(), "alice")
	r.Join(uuid.New(), "bob")
	require.NoError(t, r.StartRound(winner.ID))

	r.endRound(winner.ID)

	assert.Eventually(t, func() bool {
		_, ok := s.GetRoom(r.Code)
		return !ok
	}, time.Second, 5*time.Millisecond, "a finished room leaves the store")
}

func TestFindByIdentity(t *testing.T) {
	s := NewRoomStore()
	r1 := s.CreateRoom()
	s.CreateRoom()
	id := uuid.New()
	r1.HandleJoin(id, "alice")

	assert.Same(t, r1, s.FindByIdentity(id))
	assert.Nil(t, s.FindByIdentity(uuid.New()))
}

func TestEvictIdle(t *testing.T) {
	s := NewRoomStore()
	idle := s.CreateRoom()
	fresh := s.CreateRoom()
	idle.Mu.Lock()
	idle.LastActivity = time.Now().Add(-2 * time.Hour)
	idle.Mu.Unlock()

	evicted := s.EvictIdle(time.Hour)

	assert.Equal(t, 1, evicted)
	_, ok := s.GetRoom(idle.Code)
	assert.False(t, ok)
	_, ok = s.GetRoom(fresh.Code)
	assert.True(t, ok)
}
