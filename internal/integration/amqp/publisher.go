// Package amqp publishes verification mail and workflow events to RabbitMQ.
package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/noah-isme/science-hub-api/internal/models"
)

// Channel is the part of *amqp.Channel the publisher uses.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Dialer opens a channel and returns it with the connection that owns it.
type Dialer func(url string) (Channel, io.Closer, error)

// Config names the broker and its queues.
type Config struct {
	URL               string
	MailQueue         string
	NotificationQueue string
	From              string
}

// MailMessage is the payload consumed by the mail worker.
type MailMessage struct {
	To        string    `json:"to"`
	Name      string    `json:"name,omitempty"`
	From      string    `json:"from"`
	Subject   string    `json:"subject"`
	Code      string    `json:"code"`
	Purpose   string    `json:"purpose"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Publisher opens a fresh connection per message and returns failures to the
// caller.
type Publisher struct {
	cfg    Config
	dial   Dialer
	logger *zap.Logger
}

// NewPublisher constructs a Publisher. A nil dialer uses amqp.Dial.
func NewPublisher(cfg Config, dial Dialer, logger *zap.Logger) *Publisher {
	if dial == nil {
		dial = dialBroker
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{cfg: cfg, dial: dial, logger: logger}
}

func dialBroker(url string) (Channel, io.Closer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	return ch, conn, nil
}

// SendVerification queues a verification or reset mail.
func (p *Publisher) SendVerification(ctx context.Context, msg models.VerificationMessage) error {
	subject := "Verify your Science Hub account"
	if msg.Purpose == models.PurposePasswordReset {
		subject = "Reset your Science Hub password"
	}
	return p.publish(ctx, p.cfg.MailQueue, MailMessage{
		To:        msg.Recipient,
		Name:      msg.RecipientName,
		From:      p.cfg.From,
		Subject:   subject,
		Code:      msg.Code,
		Purpose:   string(msg.Purpose),
		ExpiresAt: msg.ExpiresAt,
	})
}

// Name implements the notification sink contract.
func (p *Publisher) Name() string { return "amqp" }

// Deliver publishes a workflow event to the notification queue.
func (p *Publisher) Deliver(ctx context.Context, event models.NotificationEvent) error {
	return p.publish(ctx, p.cfg.NotificationQueue, event)
}

func (p *Publisher) publish(ctx context.Context, queue string, payload interface{}) error {
	if strings.TrimSpace(queue) == "" {
		return fmt.Errorf("amqp: queue name is empty")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("amqp: marshal payload: %w", err)
	}

	ch, conn, err := p.dial(p.cfg.URL)
	if err != nil {
		p.logger.Warn("amqp dial failed", zap.String("queue", queue), zap.Error(err))
		return err
	}
	defer func() {
		_ = ch.Close()
		if conn != nil {
			_ = conn.Close()
		}
	}()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("amqp: declare %s: %w", queue, err)
	}

	if err := ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}); err != nil {
		return fmt.Errorf("amqp: publish to %s: %w", queue, err)
	}
	return nil
}
