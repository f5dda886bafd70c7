package rabbitmq

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/ports/out"
)

type CachePersonMessage struct {
	PersonID uuid.UUID `json:"person_id"`
}

func (l *CacheHitListener) startPersonQueue(ctx context.Context) error {
	queue, err := l.channel.QueueDeclare(
		l.cfg.RabbitMq.QueueConfig.PersonQueueName,
		true,  // durable
		true,  // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}
	err = l.channel.QueueBind(
		queue.Name,
		l.cfg.RabbitMq.QueueConfig.PersonQueueBind,
		l.cfg.RabbitMq.QueueConfig.PersonQueueExchange,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	msgs, err := l.channel.Consume(
		queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				if err := l.processPersonMessage(ctx, msg); err != nil {
					msg.Nack(false, true) // requeue message
					continue
				}
				msg.Ack(false)
			}
		}
	}()

	return nil
}

// Любое изменение персоны перечитывает все ее периоды целиком,
// поэтому store и invalidate здесь обрабатываются одинаково
func (l *CacheHitListener) processPersonMessage(ctx context.Context, msg amqp.Delivery) error {
	cacheMessageRoutingKey, err := l.parseCacheMessageRoutingKey(ctx, msg)
	if err != nil {
		return err
	}

	if cacheMessageRoutingKey.ResourceType != CacheHitResourceTypePerson {
		return nil
	}

	var msgJson CachePersonMessage
	if err := json.Unmarshal(msg.Body, &msgJson); err != nil {
		return err
	}

	l.logger.Info("person.message.received", out.LogFields{
		"msg":       msgJson,
		"msgString": string(msg.Body),
	})

	go l.useCase.InvalidatePersonCache(ctx, msgJson.PersonID)

	l.logger.Info("person.message.invalidated", out.LogFields{
		"person_id": msgJson.PersonID,
	})

	return nil
}
