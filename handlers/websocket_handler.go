package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/bryler/creature-arena/brackets"
	"github.com/bryler/creature-arena/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Cross-origin subscribers are allowed; the stream is read-only.
		return true
	},
}

type WebsocketHandler struct {
	hub     *brackets.Hub
	manager services.TournamentManager
}

func NewWebsocketHandler(hub *brackets.Hub, manager services.TournamentManager) *WebsocketHandler {
	return &WebsocketHandler{hub: hub, manager: manager}
}

// SubscribeHandler handles GET /ws/tournaments/{tournamentID}. It upgrades
// the connection and joins the client to the tournament's room.
func (h *WebsocketHandler) SubscribeHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID := tournamentIDFromURL(r)
	if _, err := h.manager.GetTournament(r.Context(), tournamentID); err != nil {
		mapManagerErrorToHTTP(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed",
			slog.String("tournament_id", tournamentID),
			slog.Any("error", err))
		return
	}

	client := &brackets.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: tournamentID,
	}
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
