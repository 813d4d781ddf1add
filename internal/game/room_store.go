package game

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

const roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const roomCodeLength = 4

// RoomStore is the keyed room table. All access goes through the store's own
// mutex; per-room state is guarded by each room's lock.
type RoomStore struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

func NewRoomStore() *RoomStore {
	return &RoomStore{rooms: make(map[string]*Room)}
}

// CreateRoom generates an unused code and initializes a waiting room.
func (s *RoomStore) CreateRoom() *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	code := s.generateCodeLocked()
	r := NewRoom(code)
	r.OnRoundEnd = func(code string, _ uuid.UUID) {
		s.DeleteRoom(code)
	}
	s.rooms[code] = r
	return r
}

func (s *RoomStore) generateCodeLocked() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for {
		b := make([]byte, roomCodeLength)
		for i := range b {
			b[i] = roomCodeAlphabet[rng.Intn(len(roomCodeAlphabet))]
		}
		code := string(b)
		if _, exists := s.rooms[code]; !exists {
			return code
		}
	}
}

func (s *RoomStore) GetRoom(code string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[code]
	return r, ok
}

func (s *RoomStore) DeleteRoom(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
}

// FindByIdentity scans all rooms for a seat matching the stable identity.
// Used by session resumption; returns nil if the identity is seated nowhere.
func (s *RoomStore) FindByIdentity(id uuid.UUID) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rooms {
		r.Mu.Lock()
		seated := r.getPlayerByID(id) != nil
		r.Mu.Unlock()
		if seated {
			return r
		}
	}
	return nil
}

// EvictIdle destroys rooms with no activity for longer than ttl and reports
// how many were removed.
func (s *RoomStore) EvictIdle(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	cutoff := time.Now().Add(-ttl)
	for code, r := range s.rooms {
		r.Mu.Lock()
		idle := r.LastActivity.Before(cutoff)
		r.Mu.Unlock()
		if idle {
			delete(s.rooms, code)
			evicted++
		}
	}
	if evicted > 0 {
		log.Printf("RoomStore: evicted %d idle room(s).", evicted)
	}
	return evicted
}

// StartJanitor runs EvictIdle on a fixed interval until stop is closed.
func (s *RoomStore) StartJanitor(ttl, interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.EvictIdle(ttl)
			case <-stop:
				return
			}
		}
	}()
}
