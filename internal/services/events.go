package services

import (
	"context"
	"encoding/json"
	"fmt"
)

// ProjectEvent describes an interaction with a project that its owner may
// want to hear about.
type ProjectEvent struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	ProjectTitle string `json:"project_title"`
	OwnerID      string `json:"owner_id"`
	ActorID      string `json:"actor_id"`
	ActorName    string `json:"actor_name"`
}

// EventPublisher delivers project events. Delivery is best-effort: callers
// log a failure and carry on.
type EventPublisher interface {
	PublishProjectEvent(ctx context.Context, event ProjectEvent) error
}

// QueueClient is the broker side of a QueuePublisher.
type QueueClient interface {
	Publish(ctx context.Context, body []byte) error
}

// QueuePublisher publishes events as JSON messages on a broker queue.
type QueuePublisher struct {
	client QueueClient
}

// NewQueuePublisher creates a publisher backed by client.
func NewQueuePublisher(client QueueClient) *QueuePublisher {
	return &QueuePublisher{client: client}
}

// PublishProjectEvent encodes event and hands it to the broker.
func (p *QueuePublisher) PublishProjectEvent(ctx context.Context, event ProjectEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal project event: %w", err)
	}
	return p.client.Publish(ctx, body)
}

// DecodeProjectEvent parses a broker message produced by QueuePublisher.
func DecodeProjectEvent(body []byte) (ProjectEvent, error) {
	var event ProjectEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return event, fmt.Errorf("failed to decode project event: %w", err)
	}
	if event.Type == "" || event.OwnerID == "" {
		return event, fmt.Errorf("project event is missing type or owner")
	}
	return event, nil
}

// DirectPublisher hands events straight to the notification service in-process.
type DirectPublisher struct {
	notifications *NotificationService
}

// NewDirectPublisher creates an in-process publisher.
func NewDirectPublisher(notifications *NotificationService) *DirectPublisher {
	return &DirectPublisher{notifications: notifications}
}

// PublishProjectEvent stores the notification for event synchronously.
func (p *DirectPublisher) PublishProjectEvent(ctx context.Context, event ProjectEvent) error {
	return p.notifications.HandleProjectEvent(ctx, event)
}
