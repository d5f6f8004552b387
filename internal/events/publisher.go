package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventPublisher publishes domain events to the configured message transport.
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

// GoChannelEventPublisher publishes events over an in-process watermill
// channel. It is the default transport when no broker is configured.
type GoChannelEventPublisher struct {
	pubSub *gochannel.GoChannel
	topic  string
	logger *slog.Logger
}

func NewGoChannelEventPublisher(topic string, logger *slog.Logger) *GoChannelEventPublisher {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewSlogLogger(logger),
	)

	return &GoChannelEventPublisher{
		pubSub: pubSub,
		topic:  topic,
		logger: logger,
	}
}

func (p *GoChannelEventPublisher) Publish(ctx context.Context, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("event_type", event.Type)

	if err := p.pubSub.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}

	p.logger.Debug("Event published", "event_id", event.ID, "event_type", event.Type)
	return nil
}

// Subscribe exposes the underlying channel for in-process consumers.
func (p *GoChannelEventPublisher) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return p.pubSub.Subscribe(ctx, p.topic)
}

func (p *GoChannelEventPublisher) Close() error {
	return p.pubSub.Close()
}
