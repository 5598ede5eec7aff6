package notification

import (
	"context"

	"github.com/google/uuid"

	"github.com/skyhire/skyhire-api/internal/pkg/logger"
)

type userSender interface {
	SendToUserJSON(userID uuid.UUID, payload any) error
}

// Event is the JSON frame delivered to WebSocket clients
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Publisher sends booking events to connected users
type Publisher struct {
	sender userSender
}

// NewPublisher creates a WebSocket-backed publisher
func NewPublisher(sender userSender) *Publisher {
	return &Publisher{sender: sender}
}

// Notify delivers an event. Delivery failures are logged and otherwise ignored.
func (p *Publisher) Notify(ctx context.Context, userID uuid.UUID, eventType string, payload interface{}) {
	if p == nil || p.sender == nil {
		return
	}

	if err := p.sender.SendToUserJSON(userID, Event{Type: eventType, Data: payload}); err != nil {
		logger.LogWarn(ctx, "failed to publish realtime event",
			"user_id", userID,
			"event_type", eventType,
			"error", err.Error(),
		)
	}
}
