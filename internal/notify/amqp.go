package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultExchange is the topic exchange events are published to. The
// routing key is the event type, e.g. "ticket.bumped".
const DefaultExchange = "pos.events"

// Publisher is the subset of *amqp.Channel used by AMQPSink.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPSink publishes events to a RabbitMQ topic exchange.
type AMQPSink struct {
	mu       sync.Mutex // amqp channels are not safe for concurrent publish
	ch       Publisher
	exchange string
}

// NewAMQPSink wraps an already-declared exchange.
func NewAMQPSink(ch Publisher, exchange string) *AMQPSink {
	return &AMQPSink{ch: ch, exchange: exchange}
}

// DialAMQP connects, opens a channel and declares a durable topic exchange.
// The returned close func releases the channel and connection.
func DialAMQP(url, exchange string) (*AMQPSink, func() error, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	closeFn := func() error {
		ch.Close()
		return conn.Close()
	}
	return NewAMQPSink(ch, exchange), closeFn, nil
}

// Publish sends e as a persistent JSON message.
func (s *AMQPSink) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ch.PublishWithContext(ctx, s.exchange, e.Type, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    e.OccurredAt,
		Type:         e.Type,
		Body:         body,
	})
}
