package publish

import (
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/aurashield/aurashield/internal/config"
	"github.com/aurashield/aurashield/internal/models"
)

// Publisher pushes newly produced alerts onto RabbitMQ so downstream
// consumers (case management, notification fan-out) can react without
// polling the backend. Publishing is best-effort; a nil Publisher is
// valid and drops everything.
type Publisher struct {
	cfg  *config.Config
	log  *zap.SugaredLogger
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher dials RabbitMQ and declares the alert exchange, queue
// and binding.
func NewPublisher(cfg *config.Config, log *zap.SugaredLogger) (*Publisher, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		cfg.RabbitMQExchange, // name
		"topic",              // type
		true,                 // durable
		false,                // auto-deleted
		false,                // internal
		false,                // no-wait
		nil,                  // arguments
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(
		cfg.RabbitMQQueue, // name
		true,              // durable
		false,             // delete when unused
		false,             // exclusive
		false,             // no-wait
		nil,               // arguments
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(
		cfg.RabbitMQQueue,
		cfg.RabbitMQRoutingKey,
		cfg.RabbitMQExchange,
		false,
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	log.Infow("RabbitMQ initialized",
		"exchange", cfg.RabbitMQExchange,
		"queue", cfg.RabbitMQQueue,
		"routing_key", cfg.RabbitMQRoutingKey)

	return &Publisher{cfg: cfg, log: log, conn: conn, ch: ch}, nil
}

// PublishAlert publishes one alert as persistent JSON. Safe on a nil
// receiver.
func (p *Publisher) PublishAlert(a models.Alert) error {
	if p == nil || p.ch == nil {
		return nil
	}

	body, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode alert: %w", err)
	}

	err = p.ch.Publish(
		p.cfg.RabbitMQExchange,
		p.cfg.RabbitMQRoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish alert: %w", err)
	}
	return nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.ch != nil {
		p.ch.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
