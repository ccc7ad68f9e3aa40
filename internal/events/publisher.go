// Package events publishes distribution lifecycle messages to an AMQP broker
// so that downstream consumers (e.g. notification services) can react to
// distribution batches without polling the API.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Publisher wraps an AMQP connection. A nil *Publisher is valid and
// drops all messages, which is the mode used when no broker is configured.
type Publisher struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
}

// NewPublisher connects to the broker and declares the exchange.
func NewPublisher(url, exchangeName string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p := &Publisher{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
	}

	err = p.channel.ExchangeDeclare(
		p.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		p.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return p, nil
}

// PublishDistributionCompleted announces a finished distribution batch.
func (p *Publisher) PublishDistributionCompleted(ctx context.Context, historyID, userID uuid.UUID, total decimal.Decimal) error {
	return p.publish(ctx, KeyDistributionCompleted, NewDistributionMessage(historyID, userID, total))
}

// PublishDistributionReversed announces the deletion of a distribution batch.
func (p *Publisher) PublishDistributionReversed(ctx context.Context, historyID, userID uuid.UUID, total decimal.Decimal) error {
	return p.publish(ctx, KeyDistributionReversed, NewDistributionMessage(historyID, userID, total))
}

func (p *Publisher) publish(ctx context.Context, key string, msg *DistributionMessage) error {
	if p == nil {
		return nil
	}

	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchangeName,
		key,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	log.Debug().
		Str("key", key).
		Str("historyId", msg.HistoryID.String()).
		Str("exchange", p.exchangeName).
		Msg("published distribution message")

	return nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}

	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
