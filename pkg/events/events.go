package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/trailmark/experiences-api/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSPublisher{conn: conn}, nil
}

func (n *NATSPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSPublisher) Close() error {
	n.conn.Close()
	return nil
}

// NoopPublisher drops every event. Used when NATS_URL is unset and in
// tests.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }
func (NoopPublisher) Close() error                                       { return nil }

// Event subjects
const (
	UserRegistered      = "user.registered"
	ExperiencePublished = "experience.published"
	ExperienceBlocked   = "experience.blocked"
	BookingCreated      = "booking.created"
)

type UserRegisteredEvent struct {
	UserID    int64     `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type ExperienceStatusEvent struct {
	ExperienceID int64  `json:"experience_id"`
	OwnerID      int64  `json:"owner_id"`
	Status       string `json:"status"`
}

type BookingCreatedEvent struct {
	BookingID    int64     `json:"booking_id"`
	ExperienceID int64     `json:"experience_id"`
	UserID       int64     `json:"user_id"`
	Seats        int       `json:"seats"`
	CreatedAt    time.Time `json:"created_at"`
}
