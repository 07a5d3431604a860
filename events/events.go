package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dosada05/bracket-engine/models"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

const TopicBracketUpdated = "bracket.updated"

// Reasons carried by BracketUpdated.
const (
	ReasonCreated          = "created"
	ReasonMatchTransition  = "match_transition"
	ReasonMatchCompleted   = "match_completed"
	ReasonParticipantNamed = "participant_renamed"
	ReasonDeleted          = "deleted"
)

// BracketUpdated is published after every committed change to a bracket. Bracket is the full
// state after the change (nil for deletions), ChangedMatches the ids written by the change.
type BracketUpdated struct {
	BracketID      string           `json:"bracket_id"`
	Reason         string           `json:"reason"`
	ChangedMatches []models.MatchID `json:"changed_matches,omitempty"`
	Bracket        *models.Bracket  `json:"bracket,omitempty"`
	OccurredAt     time.Time        `json:"occurred_at"`
}

type Publisher interface {
	PublishBracketUpdated(ctx context.Context, evt BracketUpdated) error
}

type watermillPublisher struct {
	pub message.Publisher
}

func NewPublisher(pub message.Publisher) Publisher {
	return &watermillPublisher{pub: pub}
}

func (p *watermillPublisher) PublishBracketUpdated(ctx context.Context, evt BracketUpdated) error {
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event for bracket %s: %w", evt.Reason, evt.BracketID, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("bracket_id", evt.BracketID)
	msg.Metadata.Set("reason", evt.Reason)

	if err := p.pub.Publish(TopicBracketUpdated, msg); err != nil {
		return fmt.Errorf("failed to publish %s event for bracket %s: %w", evt.Reason, evt.BracketID, err)
	}
	return nil
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) PublishBracketUpdated(context.Context, BracketUpdated) error { return nil }
