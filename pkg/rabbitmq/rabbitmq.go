package rabbitmq

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	amqp "github.com/streadway/amqp"
)

const emailQueue = "email_queue"

// Email task kinds.
const (
	KindVerification  = "verification"
	KindPasswordReset = "password_reset"
)

// EmailTask is a queued request to send one email. Delivery is
// fire-and-forget from the producer's point of view: a failed send never
// rolls back the database write that preceded it.
type EmailTask struct {
	Kind     string `json:"kind"`
	To       string `json:"to"`
	Username string `json:"username"`
	Token    string `json:"token"`
	BaseURL  string `json:"base_url"`
}

// Publisher is the producer side of the email queue.
type Publisher interface {
	PublishEmailTask(task EmailTask) error
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewClient connects to RabbitMQ, opens a channel and declares the durable
// email queue.
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

	_, err = ch.QueueDeclare(
		emailQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", emailQueue, err)
	}

	log.Printf("RabbitMQ client connected, %s declared", emailQueue)

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
}

// Close closes the RabbitMQ channel and connection.
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
		return fmt.Errorf("errors closing RabbitMQ client: %v", errs)
	}
	return nil
}

// PublishEmailTask enqueues one email task as a persistent JSON message.
func (c *Client) PublishEmailTask(task EmailTask) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal email task: %w", err)
	}

	err = c.channel.Publish(
		"",         // default exchange
		emailQueue, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.New().String(),
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish email task: %w", err)
	}
	return nil
}

// ConsumeEmailTasks registers a consumer on the email queue. Each message
// is unmarshaled into an EmailTask and handed to the handler; the message
// is acked on success and nacked with requeue on failure.
func (c *Client) ConsumeEmailTasks(handler func(task EmailTask) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		emailQueue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			var task EmailTask
			if err := json.Unmarshal(msg.Body, &task); err != nil {
				log.Printf("Dropping malformed email task %s: %v", msg.MessageId, err)
				// Unparseable messages would loop forever if requeued.
				if nackErr := msg.Nack(false, false); nackErr != nil {
					log.Printf("Error nacking message %s: %v", msg.MessageId, nackErr)
				}
				continue
			}

			if err := handler(task); err != nil {
				log.Printf("Error processing email task %s: %v", msg.MessageId, err)
				if nackErr := msg.Nack(false, true); nackErr != nil {
					log.Printf("Error nacking message %s: %v", msg.MessageId, nackErr)
				}
				continue
			}

			if ackErr := msg.Ack(false); ackErr != nil {
				log.Printf("Error acking message %s: %v", msg.MessageId, ackErr)
			}
		}
	}()

	return nil
}
