package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/diagnosis/tourvisto-admin/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url, nats.Name("tourvisto-admin"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Close() error {
	n.conn.Drain()
	return nil
}

// LogPublisher stands in for NATS when the bus is disabled; events are only
// logged.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	logger.InfoContext(ctx, "Event bus disabled, dropping event", "subject", subject)
	return nil
}

func (LogPublisher) Close() error { return nil }

const (
	// Consumed by the external trip generator.
	TripGenerateRequested = "trip.generate.requested"
)

type TripGenerateRequestedEvent struct {
	RequestID   string    `json:"request_id"`
	UserID      string    `json:"user_id"`
	Country     string    `json:"country"`
	Duration    int       `json:"duration"`
	TravelStyle string    `json:"travel_style"`
	Interest    string    `json:"interest"`
	Budget      string    `json:"budget"`
	GroupType   string    `json:"group_type"`
	RequestedAt time.Time `json:"requested_at"`
}
