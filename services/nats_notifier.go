package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// NATSNotifier publishes events on "<prefix>.<type>".
type NATSNotifier struct {
	conn   *nats.Conn
	prefix string
}

func NewNATSNotifier(url, prefix string) (*NATSNotifier, error) {
	conn, err := nats.Connect(url, nats.Name("restaurant-reservation"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	if prefix == "" {
		prefix = "reservations"
	}
	return &NATSNotifier{conn: conn, prefix: prefix}, nil
}

func (n *NATSNotifier) Notify(ctx context.Context, event ReservationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := n.conn.Publish(n.prefix+"."+event.Type, body); err != nil {
		return fmt.Errorf("publish to NATS: %w", err)
	}
	return nil
}

func (n *NATSNotifier) Close() error {
	return n.conn.Drain()
}
