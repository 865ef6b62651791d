package rabbitmq

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/streadway/amqp"
)

// Event kinds published on the order lifecycle queue.
const (
	EventOrderCreated = "order.created"
	EventOrderPaid    = "order.paid"
	EventOrderFailed  = "order.failed"
	EventOrderStatus  = "order.status_changed"
)

const orderQueue = "order_events"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient creates a new RabbitMQ client. It connects to RabbitMQ, opens a
// channel and declares the durable order event queue upfront.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close() // Close connection if channel creation fails
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		orderQueue, // name
		true,       // durable (persists messages across broker restarts)
		false,      // delete when unused
		false,      // exclusive
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s queue: %w", orderQueue, err)
	}

	log.Printf("RabbitMQ client connected and %s queue declared.", orderQueue)

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// OrderEvent is the message body published for order lifecycle changes.
// Consumers drive fulfilment side effects (emails, inventory) off it.
type OrderEvent struct {
	Kind       string    `json:"kind"`
	OrderID    string    `json:"order_id"`
	Reference  string    `json:"reference"`
	Status     string    `json:"status"`
	Email      string    `json:"email"`
	TotalMinor int64     `json:"total_minor"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PublishOrderEvent publishes an order lifecycle event to the order queue.
func (c *Client) PublishOrderEvent(event OrderEvent) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event to JSON: %w", err)
	}

	err = c.channel.Publish(
		"",         // exchange: default exchange
		orderQueue, // routing key: the queue name
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // Make message persistent
			Timestamp:    time.Now(),
			Type:         event.Kind,
		})
	if err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	log.Printf(" [x] Sent %s for order %s", event.Kind, event.OrderID)
	return nil
}

// ConsumeOrderEvents starts a goroutine delivering order events to the
// handler. Messages are acked on success and nacked (requeued) on handler
// error.
func (c *Client) ConsumeOrderEvents(messageHandler func(msg amqp.Delivery) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	queue, err := c.channel.QueueDeclare(
		orderQueue, // name
		true,       // durable
		false,      // delete when unused
		false,      // exclusive
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue for consuming: %w", err)
	}

	msgs, err := c.channel.Consume(
		queue.Name, // queue
		"",         // consumer tag
		false,      // auto-ack: manual acknowledgement
		false,      // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Printf(" [*] Waiting for order events on %s", queue.Name)

	go func() {
		for msg := range msgs {
			if err := messageHandler(msg); err != nil {
				log.Printf("Error processing message %d: %v", msg.DeliveryTag, err)
				if requeueErr := msg.Nack(false, true); requeueErr != nil {
					log.Printf("Error nacking message %d: %v", msg.DeliveryTag, requeueErr)
				}
			} else {
				if ackErr := msg.Ack(false); ackErr != nil {
					log.Printf("Error acking message %d: %v", msg.DeliveryTag, ackErr)
				}
			}
		}
	}()

	return nil
}
