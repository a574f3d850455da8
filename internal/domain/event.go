package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Topic names double as the event-delivery route names on the user service.
const (
	TopicTenantCreated = "TenantCreated"
	TopicTenantDeleted = "TenantDeleted"
)

// TenantCreated is published once the tenant record has been persisted.
type TenantCreated struct {
	ID string `json:"id" validate:"required,guid"`
}

// TenantDeleted is published once the tenant record has been removed.
type TenantDeleted struct {
	ID string `json:"id" validate:"required,guid"`
}

// Envelope wraps an event payload on the bus. ID identifies one publish; a
// redelivered envelope carries the same ID.
type Envelope struct {
	ID          string          `json:"id"`
	Topic       string          `json:"topic"`
	Payload     json.RawMessage `json:"payload"`
	PublishedAt time.Time       `json:"published_at"`
}

func NewEnvelope(topic string, event any) (Envelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to marshal %s payload: %w", topic, err)
	}

	return Envelope{
		ID:          uuid.NewString(),
		Topic:       topic,
		Payload:     payload,
		PublishedAt: time.Now().UTC(),
	}, nil
}
