package rabbitmq

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/domain"
	"github.com/suchimauz/roster-schedule-matrix-generator/internal/core/ports/out"
)

type CacheLeavePeriodMessage struct {
	PeriodID    string             `json:"period_id"`
	LeavePeriod domain.LeavePeriod `json:"leave_period"`
}

func (l *CacheHitListener) startLeavePeriodQueue(ctx context.Context) error {
	queue, err := l.channel.QueueDeclare(
		l.cfg.RabbitMq.QueueConfig.LeavePeriodQueueName,
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
		l.cfg.RabbitMq.QueueConfig.LeavePeriodQueueBind,
		l.cfg.RabbitMq.QueueConfig.LeavePeriodQueueExchange,
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
				if err := l.processLeavePeriodMessage(ctx, msg); err != nil {
					msg.Nack(false, true) // requeue message
					continue
				}
				msg.Ack(false)
			}
		}
	}()

	return nil
}

func (l *CacheHitListener) processLeavePeriodMessage(ctx context.Context, msg amqp.Delivery) error {
	cacheMessageRoutingKey, err := l.parseCacheMessageRoutingKey(ctx, msg)
	if err != nil {
		return err
	}

	if cacheMessageRoutingKey.ResourceType != CacheHitResourceTypeLeavePeriod {
		return nil
	}

	var msgJson CacheLeavePeriodMessage
	if err := json.Unmarshal(msg.Body, &msgJson); err != nil {
		return err
	}

	l.logger.Info("leave_period.message.received", out.LogFields{
		"msg":       msgJson,
		"msgString": string(msg.Body),
	})

	if cacheMessageRoutingKey.CacheHitType == CacheHitTypeInvalidate {
		go l.useCase.InvalidateLeavePeriodCache(ctx, msgJson.PeriodID)

		l.logger.Info("leave_period.message.invalidated", out.LogFields{
			"period_id": msgJson.PeriodID,
		})
	}

	if cacheMessageRoutingKey.CacheHitType == CacheHitTypeStore {
		go l.useCase.StoreLeavePeriodCache(ctx, msgJson.LeavePeriod)

		l.logger.Info("leave_period.message.stored", out.LogFields{
			"period_id": msgJson.LeavePeriod.ID,
		})
	}

	return nil
}
