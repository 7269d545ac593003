package http

import (
	"encoding/json"
	"log"
	"net/http"

	"millionenspiel-service/internal/app"

	"github.com/gorilla/websocket"
)

// WSHandler drives one interactive play session per connection. The correct
// answer index never leaves the server; clients only see shuffled options.
type WSHandler struct {
	games    *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(games *app.GameService) *WSHandler {
	return &WSHandler{
		games: games,
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
	Index int `json:"index"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type hintPayload struct {
	Hint string `json:"hint"`
}

// ServeWS upgrades the connection and plays one game to a terminal state.
// Inbound frames: {"type":"answer","payload":{"index":n}} and
// {"type":"joker"}. The terminal frame ("won"/"lost") carries the recorded
// score.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	playerName := r.URL.Query().Get("name")
	if gameID == "" || playerName == "" {
		http.Error(w, "missing gameId or name", http.StatusBadRequest)
		return
	}

	game, err := h.games.Game(r.Context(), gameID)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	session := app.NewPlaySession(game)
	if session.State() != app.StatePlaying {
		h.send(conn, outboundMessage{Type: "error", Payload: errorPayload{Message: "game has no playable questions"}})
		return
	}
	h.send(conn, outboundMessage{Type: "question", Payload: session.Question()})

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			// Abandoned mid-session: nothing is recorded, matching a closed
			// browser tab in the original flow.
			return
		}

		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.send(conn, outboundMessage{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}})
				continue
			}
			outcome, err := session.Answer(payload.Index)
			if err != nil {
				h.send(conn, outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}})
				continue
			}
			h.send(conn, outboundMessage{Type: "answerResult", Payload: outcome})

			switch outcome.State {
			case app.StatePlaying:
				h.send(conn, outboundMessage{Type: "question", Payload: session.Question()})
			case app.StateWon, app.StateLost:
				score := session.Score(playerName)
				if err := h.games.FinishPlay(r.Context(), score); err != nil {
					log.Printf("finish play for %s: %v", playerName, err)
				}
				h.send(conn, outboundMessage{Type: terminalType(outcome.State), Payload: score})
				return
			}
		case "joker":
			hint, ok := session.UseJoker()
			if !ok {
				h.send(conn, outboundMessage{Type: "error", Payload: errorPayload{Message: "joker not available"}})
				continue
			}
			h.send(conn, outboundMessage{Type: "hint", Payload: hintPayload{Hint: hint}})
		default:
			h.send(conn, outboundMessage{Type: "error", Payload: errorPayload{Message: "unsupported message type"}})
		}
	}
}

func (h *WSHandler) send(conn *websocket.Conn, msg outboundMessage) {
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("ws write error: %v", err)
	}
}

func terminalType(state app.SessionState) string {
	if state == app.StateWon {
		return "won"
	}
	return "lost"
}
