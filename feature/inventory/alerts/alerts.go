// Package alerts publishes reorder notifications to a message broker.
//
// Whenever an adjustment or a reconciliation run drops a record to or below
// its reorder threshold, an alert is published so purchasing workflows can
// react without polling the inventory API. Publishing is fire-and-forget and
// optional: with no broker URL configured the publisher is a no-op.
package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lv-inventory/feature/inventory/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Config holds configuration for the alert publisher.
type Config struct {
	// URL is the AMQP broker URL. Empty disables alerts.
	URL string `mapstructure:"url" default:""`
	// Exchange is the topic exchange alerts are published to.
	Exchange string `mapstructure:"exchange" default:"inventory.alerts"`
}

// ReorderAlert is the published message body.
type ReorderAlert struct {
	ProjectID        string    `json:"project_id"`
	RecordID         string    `json:"record_id"`
	PartNumber       string    `json:"part_number,omitempty"`
	Description      string    `json:"description"`
	Available        float64   `json:"quantity_available"`
	ReorderThreshold float64   `json:"reorder_threshold"`
	ReorderQuantity  float64   `json:"reorder_quantity"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// Publisher emits reorder alerts.
type Publisher interface {
	// PublishReorder publishes an alert for a record that needs restocking.
	PublishReorder(ctx context.Context, rec models.Record) error
}

// AMQPPublisher publishes alerts to a RabbitMQ topic exchange.
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// NewAMQPPublisher dials the broker and declares the exchange.
// Returns (nil, nil) when no URL is configured; a nil publisher is a no-op.
func NewAMQPPublisher(cfg Config) (*AMQPPublisher, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &AMQPPublisher{conn: conn, ch: ch, exchange: cfg.Exchange}, nil
}

// Close releases the channel and the underlying broker connection.
// Safe on a nil or partially constructed publisher.
func (p *AMQPPublisher) Close() error {
	if p == nil {
		return nil
	}
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// PublishReorder publishes a reorder alert under the routing key
// "reorder.<project_id>".
func (p *AMQPPublisher) PublishReorder(ctx context.Context, rec models.Record) error {
	if p == nil || p.ch == nil {
		return nil
	}

	body, err := json.Marshal(NewReorderAlert(rec))
	if err != nil {
		return fmt.Errorf("failed to encode alert: %w", err)
	}

	return p.ch.PublishWithContext(ctx, p.exchange, "reorder."+rec.ProjectID, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
		Timestamp:   time.Now(),
	})
}

// NewReorderAlert builds the alert payload for a record.
func NewReorderAlert(rec models.Record) ReorderAlert {
	return ReorderAlert{
		ProjectID:        rec.ProjectID,
		RecordID:         rec.ID,
		PartNumber:       rec.PartNumber,
		Description:      rec.Description,
		Available:        rec.Available,
		ReorderThreshold: rec.ReorderThreshold,
		ReorderQuantity:  rec.ReorderQuantity,
		OccurredAt:       time.Now(),
	}
}
