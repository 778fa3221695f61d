// Package telemetry streams cart snapshots to Kafka so downstream
// analytics can follow what shoppers keep in their carts. Publishing is
// fire-and-forget: a broker outage never disturbs the cart itself.
package telemetry

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/example/garment-storefront/internal/cart"
	"github.com/example/garment-storefront/pkg/logger"
)

// CartUpdated is the event emitted after every cart mutation.
type CartUpdated struct {
	ProfileKey string          `json:"profile_key"`
	TotalItems int             `json:"total_items"`
	TotalPrice float64         `json:"total_price"`
	LineItems  []cart.LineItem `json:"line_items"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type Publisher struct {
	writer     *kafka.Writer
	profileKey string
}

func NewPublisher(brokers []string, topic, profileKey string) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Publisher{writer: writer, profileKey: profileKey}
}

// Listener returns a cart listener that publishes a CartUpdated event
// for every snapshot it receives.
func (p *Publisher) Listener() cart.Listener {
	return func(items []cart.LineItem) {
		if err := p.publish(context.Background(), p.buildEvent(items, time.Now())); err != nil {
			logger.Warn().Err(err).Msg("cart telemetry publish failed")
		}
	}
}

func (p *Publisher) buildEvent(items []cart.LineItem, now time.Time) CartUpdated {
	event := CartUpdated{
		ProfileKey: p.profileKey,
		LineItems:  items,
		UpdatedAt:  now,
	}
	for _, li := range items {
		event.TotalItems += li.Quantity
		event.TotalPrice += li.Price * float64(li.Quantity)
	}
	return event
}

func (p *Publisher) publish(ctx context.Context, event CartUpdated) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ProfileKey),
		Value: data,
		Time:  event.UpdatedAt,
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
