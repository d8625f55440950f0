// Package rabbitmq is the notification relay: it fans order status-change
// events out to interested actors over a RabbitMQ fanout exchange.
// Delivery is best-effort and at-most-once; a subscriber that connects
// after an event was published misses it, and there is no replay. Events
// for the same order keep their order because all publishes for it go
// through the single publisher channel.
package rabbitmq

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/streadway/amqp"

	"pedefood/internal/models"
)

const statusExchange = "order.status"

// StatusEvent is the wire shape of a status-change notification.
type StatusEvent struct {
	OrderID string             `json:"orderId"`
	Status  models.OrderStatus `json:"status"`
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// NewClient connects to RabbitMQ and declares the status fanout exchange.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		statusExchange, // name
		"fanout",       // kind: every subscriber queue gets every event
		true,           // durable
		false,          // auto-delete
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s exchange: %w", statusExchange, err)
	}

	log.Printf("RabbitMQ client connected, %s exchange declared", statusExchange)

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errList []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errList = append(errList, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errList = append(errList, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errList) > 0 {
		return fmt.Errorf("errors closing RabbitMQ client: %v", errList)
	}
	return nil
}

// PublishStatusChanged publishes a status-change event. The publisher never
// waits on subscriber acknowledgment.
func (c *Client) PublishStatusChanged(orderID string, status models.OrderStatus) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(StatusEvent{OrderID: orderID, Status: status})
	if err != nil {
		return fmt.Errorf("failed to marshal status event: %w", err)
	}

	err = c.channel.Publish(
		statusExchange, // exchange
		"",             // routing key: fanout ignores it
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish status event: %w", err)
	}

	log.Printf(" [x] Published status event: %s", body)
	return nil
}

// ConsumeStatusEvents binds an exclusive queue to the status exchange and
// feeds every event to handler on a background goroutine. The queue is
// created at subscribe time, so events published before have no buyer here.
func (c *Client) ConsumeStatusEvents(handler func(event StatusEvent) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	queue, err := c.channel.QueueDeclare(
		"",    // name: broker-generated
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare subscriber queue: %w", err)
	}

	if err := c.channel.QueueBind(queue.Name, "", statusExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind subscriber queue: %w", err)
	}

	msgs, err := c.channel.Consume(
		queue.Name, // queue
		"",         // consumer tag
		true,       // auto-ack: at-most-once, no redelivery
		true,       // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			var event StatusEvent
			if err := json.Unmarshal(msg.Body, &event); err != nil {
				log.Printf("Skipping malformed status event: %v", err)
				continue
			}
			if err := handler(event); err != nil {
				log.Printf("Error handling status event for order %s: %v", event.OrderID, err)
			}
		}
	}()

	return nil
}
