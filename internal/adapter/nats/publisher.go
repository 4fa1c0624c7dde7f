package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/atelierline/storefront-cart/internal/app/config"
	"github.com/nats-io/nats.go"
)

const (
	connectWait   = 5 * time.Second
	maxReconnects = 5
	reconnectWait = 2 * time.Second
)

// Publisher broadcasts cart mutation events as JSON. The events are
// advisory; nothing in the cart engine depends on them being delivered.
type Publisher struct {
	conn *nats.Conn
}

func NewPublisher(cfg config.NATSConfig) (*Publisher, error) {
	opts := []nats.Option{
		nats.Name("storefront-cart publisher"),
		nats.Timeout(connectWait),
		nats.MaxReconnects(maxReconnects),
		nats.ReconnectWait(reconnectWait),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.URL, err)
	}

	return &Publisher{conn: nc}, nil
}

func (p *Publisher) Publish(_ context.Context, subject string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message for subject %s: %w", subject, err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to subject %s: %w", subject, err)
	}
	return nil
}

func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
