package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/Dosada05/bracket-engine/realtime"
	"github.com/Dosada05/bracket-engine/services"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are enforced by the CORS layer in front of the router.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub            *realtime.Hub
	bracketService services.BracketService
}

func NewWebSocketHandler(hub *realtime.Hub, bs services.BracketService) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, bracketService: bs}
}

// ServeWs joins the caller to the room of one bracket. The current bracket state is sent
// first; every later committed change arrives as a BRACKET_UPDATED message.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	bracketID, err := getParamFromURL(r, "bracketID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bracket, err := h.bracketService.GetBracket(r.Context(), bracketID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection for bracket %s: %v", bracketID, err)
		return
	}

	roomID := realtime.RoomForBracket(bracketID)
	client := &realtime.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: roomID,
	}

	snapshot, err := json.Marshal(realtime.WebSocketMessage{
		Type:    "BRACKET_SNAPSHOT",
		Payload: bracketEnvelope(bracket),
		RoomID:  roomID,
	})
	if err == nil {
		client.Send <- snapshot
	} else {
		log.Printf("Failed to marshal snapshot for bracket %s: %v", bracketID, err)
	}

	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()

	log.Printf("Client registered in room %s", roomID)
}
