package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/svmoran/duelo/internal/auth"
	"github.com/svmoran/duelo/internal/game"
	"github.com/svmoran/duelo/internal/models"
)

// sessionCookieName carries the signed guest session token.
const sessionCookieName = "duelo_session"

// WSMessage is the envelope for inbound client messages.
type WSMessage struct {
	Type   string `json:"type"`
	Room   string `json:"room,omitempty"`   // room code for join_room
	Name   string `json:"name,omitempty"`   // display name
	Card   *int   `json:"card,omitempty"`   // single-card selection
	Cards  []int  `json:"cards,omitempty"`  // combo / reorder selection
	Color  string `json:"color,omitempty"`  // chosen color for wilds / libre
	Target string `json:"target,omitempty"` // exchange victim / challenge target
	Choice string `json:"choice,omitempty"` // duel symbol or decision
}

// roomActionTypes are the message types routed into the room engine.
var roomActionTypes = map[string]bool{
	"start_round":      true,
	"play_card":        true,
	"play_combo":       true,
	"exchange_step":    true,
	"rip_decision":     true,
	"penalty_decision": true,
	"duel_choice":      true,
	"announce":         true,
	"challenge":        true,
	"draw":             true,
	"pass":             true,
	"reorder_hand":     true,
}

// WSHandler upgrades the connection, establishes the guest session, and
// runs the read loop that feeds player actions into the engine.
func WSHandler(logger *logrus.Logger, srv *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Session must be settled before the upgrade: the Set-Cookie header
		// has to ride along with the 101 response.
		identity, token, fresh, err := ensureSession(r)
		if err != nil {
			http.Error(w, "Authentication failed", http.StatusUnauthorized)
			return
		}
		if fresh {
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
			})
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"duelo"},
			OriginPatterns: []string{"*"}, // tighten for production
		})
		if err != nil {
			logger.Warnf("WebSocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

		if c.Subprotocol() != "duelo" {
			c.Close(websocket.StatusPolicyViolation, "Client must use the 'duelo' subprotocol.")
			return
		}
		logger.Infof("Player %s connected from %s", identity, r.RemoteAddr)

		srv.bindConn(identity, c)
		defer srv.unbindConn(identity, c)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Tell the client who it is; the token lets it resume later.
		sendWsMessage(ctx, c, map[string]interface{}{
			"type":     "session",
			"identity": identity.String(),
			"token":    token,
		})

		room := readRoomMessages(ctx, c, srv, identity, logger)

		if room != nil {
			room.HandleDisconnect(identity)
		}
		logger.Infof("Player %s read loop exited.", identity)
	}
}

// ensureSession resolves the stable identity from the session cookie or, on
// a first visit, mints a fresh guest session.
func ensureSession(r *http.Request) (uuid.UUID, string, bool, error) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if identity, err := auth.AuthenticateJWT(cookie.Value); err == nil {
			return identity, cookie.Value, false, nil
		}
	}
	identity, token, err := auth.NewSessionToken()
	if err != nil {
		return uuid.Nil, "", false, err
	}
	return identity, token, true, nil
}

// readRoomMessages is the per-connection read loop. It tracks which room the
// player currently occupies and returns it (possibly nil) on exit so the
// caller can mark the disconnect.
func readRoomMessages(ctx context.Context, c *websocket.Conn, srv *Server, identity uuid.UUID, logger *logrus.Logger) *game.Room {
	var room *game.Room

	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("WebSocket closed normally for player %s.", identity)
			} else if strings.Contains(err.Error(), "context canceled") {
				logger.Infof("WebSocket context canceled for player %s.", identity)
			} else {
				logger.Warnf("Error reading from WebSocket for player %s: %v", identity, err)
			}
			return room
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("Invalid JSON from player %s: %v", identity, err)
			sendWsError(ctx, c, "Invalid JSON format.")
			continue
		}
		logger.Debugf("Received '%s' from player %s.", msg.Type, identity)

		switch {
		case msg.Type == "ping":
			sendWsMessage(ctx, c, map[string]string{"type": "pong"})

		case msg.Type == "create_room":
			if room != nil {
				room.HandleDisconnect(identity)
			}
			room = srv.Rooms.CreateRoom()
			srv.attachRoom(room)
			room.HandleJoin(identity, msg.Name)
			logger.Infof("Player %s created room %s.", identity, room.Code)

		case msg.Type == "join_room":
			target, ok := srv.Rooms.GetRoom(strings.ToUpper(msg.Room))
			if !ok {
				sendWsError(ctx, c, fmt.Sprintf("%s: %s", game.ErrUnknownRoom.Error(), msg.Room))
				continue
			}
			if room != nil && room != target {
				room.HandleDisconnect(identity)
			}
			room = target
			srv.attachRoom(room)
			room.HandleJoin(identity, msg.Name)

		case msg.Type == "resume_session":
			target := srv.Rooms.FindByIdentity(identity)
			if target == nil {
				sendWsError(ctx, c, "No seat found for this session; join as a new player.")
				continue
			}
			room = target
			srv.attachRoom(room)
			room.Rebind(identity)

		case roomActionTypes[msg.Type]:
			if room == nil {
				sendWsError(ctx, c, "Join a room first.")
				continue
			}
			action := models.RoomAction{
				Type:    msg.Type,
				Card:    -1,
				CardIDs: msg.Cards,
				Color:   msg.Color,
				Target:  msg.Target,
				Choice:  msg.Choice,
			}
			if msg.Card != nil {
				action.Card = *msg.Card
			}
			room.Mu.Lock()
			room.HandleAction(identity, action)
			room.Mu.Unlock()

		default:
			sendWsError(ctx, c, fmt.Sprintf("Unknown action type: %s", msg.Type))
		}

		select {
		case <-ctx.Done():
			return room
		default:
		}
	}
}

// writeJSON marshals and writes a message with the given context.
func writeJSON(ctx context.Context, c *websocket.Conn, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return c.Write(ctx, websocket.MessageText, data)
}

// sendWsMessage marshals and sends a message with a write timeout. Write
// failures are logged only; the read loop detects dead connections.
func sendWsMessage(ctx context.Context, c *websocket.Conn, message interface{}) {
	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := writeJSON(writeCtx, c, message); err != nil {
		status := websocket.CloseStatus(err)
		if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
			log.Printf("Error writing WebSocket message: %v", err)
		}
	}
}

// sendWsError sends a structured error message to the client.
func sendWsError(ctx context.Context, c *websocket.Conn, errorMsg string) {
	sendWsMessage(ctx, c, map[string]interface{}{
		"type":    "error",
		"message": errorMsg,
	})
}
