package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"live-trivia-service/internal/app"
	"live-trivia-service/internal/domain"
	"live-trivia-service/internal/infra/roomcode"
)

const roleHost = "host"

type WSHandler struct {
	service  *app.TriviaService
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.TriviaService, hub *Hub) *WSHandler {
	return &WSHandler{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	OptionIndex *int `json:"optionIndex"`
}

type joinedPayload struct {
	PlayerID string              `json:"playerId,omitempty"`
	Role     string              `json:"role"`
	Snapshot domain.GameSnapshot `json:"snapshot"`
}

type errorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func errorMessage(err error) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error(), Code: domain.ErrorCode(err)}}
}

func protocolError(message, code string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message, Code: code}}
}

// ServeWS upgrades HTTP requests to websockets. Hosts connect with
// role=host; players connect with playerId (optional) and name.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	sessionID := query.Get("sessionId")
	host := query.Get("role") == roleHost
	playerID := query.Get("playerId")
	name := query.Get("name")
	if sessionID == "" || (!host && name == "") {
		http.Error(w, "missing sessionId or name", http.StatusBadRequest)
		return
	}
	if !host && playerID == "" {
		playerID = roomcode.NewPlayerID()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// The request context ends with the handler; the session outlives it.
	ctx := context.WithoutCancel(r.Context())

	c := newClient(sessionID, playerID)
	if host {
		c.playerID = ""
	}
	h.hub.register(c)
	defer h.hub.unregister(c)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for {
			select {
			case msg := <-c.send:
				if err := conn.WriteJSON(msg); err != nil {
					log.Printf("ws write error: %v", err)
					return
				}
			case <-c.done:
				flush(conn, c.send)
				return
			}
		}
	}()
	defer func() {
		close(c.done)
		<-writerDone
	}()

	joined := joinedPayload{PlayerID: c.playerID, Role: "player"}
	if host {
		joined.Role = roleHost
		joined.Snapshot, err = h.service.Snapshot(ctx, sessionID)
	} else {
		joined.Snapshot, err = h.service.AddPlayer(ctx, sessionID, playerID, name)
	}
	if err != nil {
		c.enqueue(errorMessage(err))
		return
	}
	c.enqueue(outboundMessage[any]{Type: "joined", Payload: joined})
	if !host {
		defer h.leave(ctx, sessionID, playerID)
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var inbound inboundMessage
		if err := json.Unmarshal(data, &inbound); err != nil {
			c.enqueue(protocolError("malformed message", "BAD_REQUEST"))
			continue
		}
		if reply, ok := h.dispatch(ctx, c, host, inbound); ok {
			c.enqueue(reply)
		}
	}
}

// flush writes whatever is still queued when the connection winds down.
func flush(conn *websocket.Conn, send <-chan outboundMessage[any]) {
	for {
		select {
		case msg := <-send:
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		default:
			return
		}
	}
}

// dispatch runs one inbound message. It returns a direct reply when there is one.
func (h *WSHandler) dispatch(ctx context.Context, c *client, host bool, inbound inboundMessage) (outboundMessage[any], bool) {
	switch inbound.Type {
	case "start", "continue", "playAgain":
		if !host {
			return protocolError("only the host can "+inbound.Type, "FORBIDDEN"), true
		}
	case "answer":
		if host {
			return protocolError("hosts cannot answer", "FORBIDDEN"), true
		}
	}

	var err error
	switch inbound.Type {
	case "start":
		err = h.service.StartGame(ctx, c.sessionID)
	case "continue":
		err = h.service.ContinueGame(ctx, c.sessionID)
	case "playAgain":
		var info domain.SessionInfo
		info, err = h.service.PlayAgain(ctx, c.sessionID)
		if err == nil {
			return outboundMessage[any]{Type: "session-created", Payload: info}, true
		}
	case "answer":
		var payload answerPayload
		if jsonErr := json.Unmarshal(inbound.Payload, &payload); jsonErr != nil || payload.OptionIndex == nil {
			return protocolError("invalid answer payload", "BAD_REQUEST"), true
		}
		_, err = h.service.SubmitAnswer(ctx, c.sessionID, c.playerID, *payload.OptionIndex)
	default:
		return protocolError("unsupported message type", "BAD_REQUEST"), true
	}
	if err != nil {
		return errorMessage(err), true
	}
	return outboundMessage[any]{}, false
}

// leave drops a disconnected player while the lobby is still open. Mid-game
// the roster stays fixed and the player simply stops answering.
func (h *WSHandler) leave(ctx context.Context, sessionID, playerID string) {
	if h.hub.playerConnections(sessionID, playerID) > 1 {
		return
	}
	err := h.service.RemovePlayer(ctx, sessionID, playerID)
	if err != nil && !errors.Is(err, domain.ErrInvalidTransition) && !errors.Is(err, domain.ErrSessionNotFound) {
		log.Printf("session %s: remove player %s: %v", sessionID, playerID, err)
	}
}
