package rabbitmq

import (
	"fmt"
	"sync"
	"time"

	amqp "github.com/streadway/amqp"
	"go.uber.org/zap"
)

// DefaultExchange is the topic exchange every store event goes through.
const DefaultExchange = "roti.events"

// Client holds the RabbitMQ connection and the channel used for publishing.
// Each consumer gets a channel of its own.
type Client struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *zap.Logger

	mu        sync.Mutex // guards channel for publishing
	consumers sync.WaitGroup
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL      string
	Exchange string
}

// NewClient connects to RabbitMQ and declares the topic exchange events are
// published to.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.Exchange == "" {
		cfg.Exchange = DefaultExchange
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close() // Close connection if channel creation fails
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // kind
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	logger.Info("RabbitMQ client connected", zap.String("exchange", cfg.Exchange))

	return &Client{
		conn:     conn,
		channel:  ch,
		exchange: cfg.Exchange,
		logger:   logger,
	}, nil
}

// Close closes the publishing channel and the connection, then waits for
// consumers to drain.
func (c *Client) Close() error {
	var errs []error
	c.mu.Lock()
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
		c.channel = nil
	}
	c.mu.Unlock()
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	c.consumers.Wait()
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// Publish sends a persistent JSON message to the exchange under routingKey.
func (c *Client) Publish(routingKey string, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	err := c.channel.Publish(
		c.exchange, // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", routingKey, err)
	}
	c.logger.Debug("Sent event", zap.String("routing_key", routingKey), zap.Int("bytes", len(body)))
	return nil
}

// Consume binds queue to the exchange with bindingKey and hands every
// delivery to handler on a background goroutine. Messages are acked when
// handler returns nil and dropped otherwise.
//
// An empty queue name declares an exclusive, server-named queue, so every
// replica receives its own copy of each message.
func (c *Client) Consume(queue, bindingKey string, handler func(msg amqp.Delivery) error) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open consumer channel: %w", err)
	}

	shared := queue != ""
	q, err := ch.QueueDeclare(
		queue,   // name
		shared,  // durable
		!shared, // delete when unused
		!shared, // exclusive
		false,   // no-wait
		nil,     // arguments
	)
	if err != nil {
		ch.Close()
		return fmt.Errorf("failed to declare queue %q: %w", queue, err)
	}

	if err := ch.QueueBind(q.Name, bindingKey, c.exchange, false, nil); err != nil {
		ch.Close()
		return fmt.Errorf("failed to bind queue %s to %s: %w", q.Name, bindingKey, err)
	}

	msgs, err := ch.Consume(
		q.Name, // queue
		"",     // consumer tag
		false,  // auto-ack
		!shared,
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		ch.Close()
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("Waiting for events", zap.String("queue", q.Name), zap.String("binding_key", bindingKey))

	c.consumers.Add(1)
	go func() {
		defer c.consumers.Done()
		for msg := range msgs {
			if err := handler(msg); err != nil {
				c.logger.Warn("Error processing message",
					zap.String("routing_key", msg.RoutingKey), zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(err))
				// Redelivering a message the handler rejected would loop forever.
				if nackErr := msg.Nack(false, false); nackErr != nil {
					c.logger.Warn("Error nacking message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(nackErr))
				}
				continue
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				c.logger.Warn("Error acking message", zap.Uint64("delivery_tag", msg.DeliveryTag), zap.Error(ackErr))
			}
		}
	}()

	return nil
}
