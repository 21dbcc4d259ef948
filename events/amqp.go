// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange receives one message per accepted confirmation
const Exchange = "meal_confirmations"

// Connection and Channel are the parts of amqp091 the publisher uses
type Connection interface {
	Channel() (Channel, error)
	Close() error
}

type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type amqpConnection struct {
	conn *amqp.Connection
}

func (c *amqpConnection) Channel() (Channel, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	return ch, nil
}

func (c *amqpConnection) Close() error {
	return c.conn.Close()
}

// Dial connects to RabbitMQ and declares the exchange
func Dial(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	p, err := NewAMQPPublisher(&amqpConnection{conn: conn})
	if err != nil {
		conn.Close()
		return nil, err
	}
	return p, nil
}

// AMQPPublisher writes events to a durable fanout exchange over a single
// channel. amqp channels are not safe for concurrent publishing, so
// publishes are serialized.
type AMQPPublisher struct {
	conn Connection

	mu sync.Mutex
	ch Channel
}

var _ Publisher = (*AMQPPublisher)(nil)

func NewAMQPPublisher(conn Connection) (*AMQPPublisher, error) {
	p := &AMQPPublisher{conn: conn}
	if _, err := p.channel(); err != nil {
		return nil, err
	}
	return p, nil
}

// channel returns the open channel, reopening it after a failure.
// Callers hold p.mu except during construction.
func (p *AMQPPublisher) channel() (Channel, error) {
	if p.ch != nil {
		return p.ch, nil
	}
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, err
	}
	if err := ch.ExchangeDeclare(Exchange, "fanout", true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	p.ch = ch
	return ch, nil
}

func (p *AMQPPublisher) PublishConfirmation(ctx context.Context, ev ConfirmationEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx, Exchange, "", false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Type:         ev.Type,
		MessageId:    ev.ID,
		Timestamp:    ev.SubmittedAt,
		Body:         body,
	})
	if err != nil {
		ch.Close()
		p.ch = nil
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		p.ch.Close()
		p.ch = nil
	}
	return p.conn.Close()
}
