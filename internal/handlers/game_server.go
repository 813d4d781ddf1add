package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/svmoran/duelo/internal/feed"
	"github.com/svmoran/duelo/internal/game"
)

// Server owns the room table and the live connection registry. Connections
// are tracked here, outside the room locks, so broadcast closures never
// touch a room mutex.
type Server struct {
	Rooms  *game.RoomStore
	Logger *logrus.Logger

	mu    sync.Mutex
	conns map[uuid.UUID]*websocket.Conn
}

func NewServer(logger *logrus.Logger) *Server {
	return &Server{
		Rooms:  game.NewRoomStore(),
		Logger: logger,
		conns:  make(map[uuid.UUID]*websocket.Conn),
	}
}

// bindConn registers (or replaces) the live connection for an identity.
func (s *Server) bindConn(id uuid.UUID, c *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[id] = c
}

// unbindConn removes the registration, but only if it still points at the
// given connection; a fresh reconnect must not be torn down by the old
// read loop exiting.
func (s *Server) unbindConn(id uuid.UUID, c *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conns[id] == c {
		delete(s.conns, id)
	}
}

func (s *Server) connFor(id uuid.UUID) *websocket.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conns[id]
}

// attachRoom injects the broadcast and action-feed hooks into a room.
// Safe to call repeatedly.
func (s *Server) attachRoom(r *game.Room) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.BroadcastToPlayerFn == nil {
		r.BroadcastToPlayerFn = s.broadcastToPlayer
	}
	if r.LogFn == nil && feed.Enabled() {
		r.LogFn = s.publishAction
	}
}

// broadcastToPlayer marshals and ships an event asynchronously. Called while
// a room lock is held, so it must not block and must not touch room state.
func (s *Server) broadcastToPlayer(playerID uuid.UUID, ev game.RoomEvent) {
	conn := s.connFor(playerID)
	if conn == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := writeJSON(ctx, conn, ev); err != nil {
			s.Logger.Warnf("Failed to write event %s to player %s: %v", ev.Type, playerID, err)
		}
	}()
}

// publishAction forwards an action record to the Redis feed without blocking
// the room.
func (s *Server) publishAction(roomCode string, actionIndex int, actor uuid.UUID, action string, payload map[string]interface{}) {
	record := feed.ActionRecord{
		RoomCode:    roomCode,
		ActionIndex: actionIndex,
		ActorID:     actor,
		ActionType:  action,
		Payload:     payload,
		Timestamp:   time.Now().UnixMilli(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := feed.PublishAction(ctx, record); err != nil {
			s.Logger.Warnf("Failed to publish action %s for room %s: %v", action, roomCode, err)
		}
	}()
}
