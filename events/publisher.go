// Package events publishes order lifecycle events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"pc-store/models"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 3 * time.Second

// Channel is the part of *amqp.Channel the publisher needs.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type RabbitPublisher struct {
	ch  Channel
	now func() time.Time
}

// Dial connects to the broker and opens a publishing channel. The returned
// close function shuts down both.
func Dial(url string) (*RabbitPublisher, func(), error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	p, err := NewRabbitPublisher(ch)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return p, func() {
		if err := p.Close(); err != nil {
			log.Printf("close amqp channel: %v", err)
		}
		if err := conn.Close(); err != nil {
			log.Printf("close amqp connection: %v", err)
		}
	}, nil
}

// NewRabbitPublisher declares the durable topic exchange so publishing never
// fails on missing infrastructure.
func NewRabbitPublisher(ch Channel) (*RabbitPublisher, error) {
	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare %s: %w", Exchange, err)
	}
	return &RabbitPublisher{ch: ch, now: time.Now}, nil
}

func (p *RabbitPublisher) Close() error {
	return p.ch.Close()
}

func (p *RabbitPublisher) OrderCreated(ctx context.Context, order *models.Order) error {
	body, err := json.Marshal(BuildOrderCreated(order, p.now()))
	if err != nil {
		return fmt.Errorf("marshal %s: %w", orderCreatedEventName, err)
	}
	return p.publishJSON(ctx, OrderCreatedRoutingKey, body)
}

func (p *RabbitPublisher) OrderStatusChanged(ctx context.Context, order *models.Order, from models.OrderStatus) error {
	body, err := json.Marshal(BuildOrderStatusChanged(order, from, p.now()))
	if err != nil {
		return fmt.Errorf("marshal %s: %w", orderStatusChangedEventName, err)
	}
	return p.publishJSON(ctx, OrderStatusChangedRoutingKey, body)
}

func (p *RabbitPublisher) publishJSON(ctx context.Context, routingKey string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err := p.ch.PublishWithContext(
		pubCtx,
		Exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    p.now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}
