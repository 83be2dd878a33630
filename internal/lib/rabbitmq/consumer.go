package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/destipicker/internal/lib/sl"
)

// ErrDiscard оборачивает ошибки, после которых сообщение не нужно возвращать в очередь.
var ErrDiscard = errors.New("discard message")

// ConsumeMessages читает очередь queueName и передаёт тела сообщений handler,
// обрабатывая не больше workers сообщений одновременно. Успешно обработанное
// сообщение подтверждается, при ошибке возвращается в очередь, а при ErrDiscard
// отбрасывается. Чтение останавливается при отмене ctx или закрытии канала.
func ConsumeMessages(ctx context.Context, ch *amqp.Channel, queueName string, workers int,
	log *slog.Logger, handler func([]byte) error) error {
	const op = "rabbitmq.ConsumeMessages"
	if workers <= 0 {
		workers = 1
	}
	if err := ch.Qos(workers, 0, false); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	delivery, err := ch.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(slog.String("op", op), slog.String("queue", queueName))
	sem := make(chan struct{}, workers)
	go func() {
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					log.Info("delivery channel closed")
					return
				}
				sem <- struct{}{}
				go func(d amqp.Delivery) {
					defer func() { <-sem }()
					settle(log, d, handler(d.Body))
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

func settle(log *slog.Logger, d amqp.Delivery, err error) {
	switch {
	case err == nil:
		if ackErr := d.Ack(false); ackErr != nil {
			log.Error("failed to ack message", sl.Err(ackErr))
		}
	case errors.Is(err, ErrDiscard):
		log.Warn("discarding message", sl.Err(err))
		if nackErr := d.Nack(false, false); nackErr != nil {
			log.Error("failed to nack message", sl.Err(nackErr))
		}
	default:
		log.Warn("message handling failed, requeueing", sl.Err(err))
		if nackErr := d.Nack(false, true); nackErr != nil {
			log.Error("failed to nack message", sl.Err(nackErr))
		}
	}
}
