package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	dialTimeout   = 2 * time.Second
	redialBackoff = 5 * time.Second
)

// AMQPPublisher publishes events to RabbitMQ on the default exchange. The
// connection is opened lazily and reopened after a failed publish. After a
// failed dial, publishes fail fast until the backoff has passed.
type AMQPPublisher struct {
	url         string
	dialTimeout time.Duration
	backoff     time.Duration

	mu         sync.Mutex
	conn       *amqp.Connection
	ch         *amqp.Channel
	retryAfter time.Time
}

func NewAMQPPublisher(url string) *AMQPPublisher {
	return &AMQPPublisher{url: url, dialTimeout: dialTimeout, backoff: redialBackoff}
}

// dial opens a connection with a bounded TCP dial; amqp.Dial waits up to 30s.
func dial(url string, timeout time.Duration) (*amqp.Connection, error) {
	return amqp.DialConfig(url, amqp.Config{
		Dial:      amqp.DefaultDial(timeout),
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
	})
}

func (p *AMQPPublisher) PublishTransactionCreated(ctx context.Context, event TransactionCreatedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal event failed: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureChannel(); err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    event.TransactionID.String(),
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx,
		"",                      // default exchange
		TransactionCreatedQueue, // routing key = queue name
		false,                   // mandatory
		false,                   // immediate
		pub,
	); err != nil {
		p.reset()
		return fmt.Errorf("rabbitmq: publish failed: %w", err)
	}
	return nil
}

// ensureChannel opens the connection and declares the queue. Callers hold p.mu.
func (p *AMQPPublisher) ensureChannel() error {
	if p.ch != nil && !p.ch.IsClosed() {
		return nil
	}
	p.reset()
	if now := time.Now(); now.Before(p.retryAfter) {
		return fmt.Errorf("rabbitmq: broker unavailable, retrying after %s", p.retryAfter.Sub(now).Round(time.Millisecond))
	}

	conn, err := dial(p.url, p.dialTimeout)
	if err != nil {
		p.retryAfter = time.Now().Add(p.backoff)
		return fmt.Errorf("rabbitmq: dial failed: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq: channel open failed: %w", err)
	}
	if _, err := ch.QueueDeclare(TransactionCreatedQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("rabbitmq: queue declare failed: %w", err)
	}
	p.conn, p.ch = conn, ch
	return nil
}

func (p *AMQPPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}

// NewPublisher returns an AMQP publisher when url is set, a LogPublisher otherwise.
func NewPublisher(url string) Publisher {
	if url == "" {
		log.Println("AMQP_URL not set; transaction events go to the log")
		return NewLogPublisher()
	}
	return NewAMQPPublisher(url)
}
