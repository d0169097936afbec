// Package broker implements publish/subscribe over a topic-structured,
// durable-queue AMQP broker.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/joaopjk/moto-manager/internal/config"
	"github.com/joaopjk/moto-manager/internal/metrics"
)

// Handler processes one raw delivery body and reports how it went.
// It must not panic; any retryable condition is expressed through the
// returned Outcome, never by raising.
type Handler func(ctx context.Context, body []byte) Outcome

// Client connects to the AMQP broker. Publishes open a short-lived
// connection per call; Subscribe holds one connection and channel for the
// lifetime of the consumer loop.
type Client struct {
	url    string
	logger *slog.Logger
}

// NewClient creates a broker client from config.
func NewClient(cfg config.BrokerConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		url:    cfg.URL(),
		logger: logger.With("component", "broker"),
	}
}

// Publish declares the durable topic exchange and publishes message as JSON
// with the mandatory flag set, so an unroutable message fails visibly
// instead of being dropped by the broker.
func (c *Client) Publish(ctx context.Context, exchange, routingKey string, message any) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := declareExchange(ch, exchange); err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx, exchange, routingKey,
		true,  // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
	}
	return nil
}

// Subscribe binds a durable queue to the exchange on routingKey and consumes
// one message at a time (prefetch 1) with manual acknowledgement, calling
// onMessage for each delivery until ctx is cancelled. Cancellation lets the
// in-flight handler finish, then tears down the channel and connection.
//
// It returns nil on cancellation and an error if the broker connection is
// lost; callers typically loop and resubscribe.
func (c *Client) Subscribe(ctx context.Context, exchange, routingKey, queue string, onMessage Handler) error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer ch.Close()

	if err := declareExchange(ch, exchange); err != nil {
		return err
	}

	if _, err := ch.QueueDeclare(queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}

	if err := ch.QueueBind(queue, routingKey, exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", queue, err)
	}

	// One unacknowledged message at a time: strict in-order processing
	// within this consumer.
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	deliveries, err := ch.Consume(queue,
		"",    // consumer tag
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("consume queue %s: %w", queue, err)
	}

	c.logger.Info("subscribed", "exchange", exchange, "routing_key", routingKey, "queue", queue)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed for queue %s", queue)
			}
			c.settle(ch, queue, d, onMessage(ctx, d.Body))
		}
	}
}

func (c *Client) settle(ch *amqp.Channel, queue string, d amqp.Delivery, outcome Outcome) {
	var err error
	switch outcome {
	case OutcomeRetry:
		err = ch.Nack(d.DeliveryTag, false, true)
	default:
		err = ch.Ack(d.DeliveryTag, false)
	}
	if err != nil {
		c.logger.Error("failed to settle delivery",
			"queue", queue,
			"outcome", outcome.String(),
			"error", err,
		)
	}
}

func declareExchange(ch *amqp.Channel, exchange string) error {
	err := ch.ExchangeDeclare(exchange,
		amqp.ExchangeTopic,
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return nil
}

// Publisher is the outbound event boundary consumed by the services.
type Publisher interface {
	PublishFleetCreation(ctx context.Context, event any) error
}

// FleetEventPublisher publishes fleet creation events to the configured
// exchange and routing key.
type FleetEventPublisher struct {
	client     *Client
	exchange   string
	routingKey string
	recorder   metrics.Recorder
}

// NewFleetEventPublisher creates the publisher for the fleet topology.
func NewFleetEventPublisher(client *Client, cfg config.BrokerConfig, recorder metrics.Recorder) *FleetEventPublisher {
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	return &FleetEventPublisher{
		client:     client,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		recorder:   recorder,
	}
}

// PublishFleetCreation publishes one fleet creation event.
func (p *FleetEventPublisher) PublishFleetCreation(ctx context.Context, event any) error {
	if err := p.client.Publish(ctx, p.exchange, p.routingKey, event); err != nil {
		return err
	}
	p.recorder.RecordPublish(p.exchange)
	return nil
}

var _ Publisher = (*FleetEventPublisher)(nil)
