package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Dosada05/bracket-engine/realtime"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Broadcaster is the part of the websocket hub the relay needs.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

// Relay forwards bracket events from the bus to the websocket rooms of the affected bracket.
type Relay struct {
	sub    message.Subscriber
	hub    Broadcaster
	logger *slog.Logger
}

func NewRelay(sub message.Subscriber, hub Broadcaster, logger *slog.Logger) *Relay {
	return &Relay{sub: sub, hub: hub, logger: logger}
}

// Run blocks until ctx is cancelled or the subscription is closed.
func (r *Relay) Run(ctx context.Context) error {
	messages, err := r.sub.Subscribe(ctx, TopicBracketUpdated)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", TopicBracketUpdated, err)
	}

	for msg := range messages {
		var evt BracketUpdated
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			// Undecodable payloads are acked and dropped.
			r.logger.Error("dropping undecodable bracket event", slog.String("message_uuid", msg.UUID), slog.Any("error", err))
			msg.Ack()
			continue
		}

		room := realtime.RoomForBracket(evt.BracketID)
		r.hub.BroadcastToRoom(room, realtime.WebSocketMessage{
			Type:    "BRACKET_UPDATED",
			Payload: evt,
			RoomID:  room,
		})
		msg.Ack()
	}
	return nil
}
