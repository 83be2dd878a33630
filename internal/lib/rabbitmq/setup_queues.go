package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

const (
	// DecisionsExchange — exchange для событий подбора заведений.
	DecisionsExchange = "decisions"
	// DecisionCreatedKey — ключ маршрутизации события о новом решении.
	DecisionCreatedKey = "decision.created"
)

// QueueConfig связывает очередь с ключом маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// DecisionQueues возвращает очереди, которые слушают события решений.
func DecisionQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "decisions.analytics", RoutingKey: DecisionCreatedKey},
	}
}

// SetupChannel открывает канал, объявляет exchange решений и привязывает к нему очереди.
func SetupChannel(conn *amqp.Connection, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = ch.ExchangeDeclare(DecisionsExchange, "direct", true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		if _, err := ch.QueueDeclare(q.QueueName, true, false, false, false, nil); err != nil {
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err)
		}
		if err := ch.QueueBind(q.QueueName, q.RoutingKey, DecisionsExchange, false, nil); err != nil {
			return nil, fmt.Errorf("%s: failed to bind queue %s with routing key %s: %w", op, q.QueueName, q.RoutingKey, err)
		}
	}

	return ch, nil
}
