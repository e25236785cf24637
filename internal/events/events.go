// Package events publishes ride lifecycle events for downstream consumers.
package events

import (
	"context"
	"time"
)

// Type names an event on the wire.
type Type string

const (
	TypeRideRequested     Type = "ride.requested"
	TypeRideAccepted      Type = "ride.accepted"
	TypeRideStatusChanged Type = "ride.status_changed"
	TypeRatingCreated     Type = "rating.created"
)

// Event is one lifecycle fact. Key orders events per ride on the broker.
type Event struct {
	ID         string         `json:"id"`
	Type       Type           `json:"type"`
	Key        string         `json:"key"`
	Data       map[string]any `json:"data"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
