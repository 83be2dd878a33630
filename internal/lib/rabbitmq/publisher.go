package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/destipicker/internal/models"
)

// PublishMessage сериализует message в JSON и публикует его в exchange.
func PublishMessage(ch *amqp.Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Publisher публикует события решений. amqp.Channel не потокобезопасен,
// поэтому публикация идёт под мьютексом.
type Publisher struct {
	mu sync.Mutex
	ch *amqp.Channel
}

// NewPublisher создаёт Publisher поверх настроенного канала.
func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

// PublishDecision отправляет событие decision.created.
func (p *Publisher) PublishDecision(ctx context.Context, event models.DecisionEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return PublishMessage(p.ch, DecisionsExchange, DecisionCreatedKey, event)
}

// NopPublisher используется, когда брокер не настроен.
type NopPublisher struct{}

// PublishDecision ничего не делает.
func (NopPublisher) PublishDecision(context.Context, models.DecisionEvent) error { return nil }
