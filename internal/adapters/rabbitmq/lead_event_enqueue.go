package rabbitmq_adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"miniapp-service/internal/contextkeys"
	"miniapp-service/internal/core/domain"
	"miniapp-service/internal/core/port"
	"miniapp-service/pkg/rabbitmq/rabbitmq_producer"

	amqp "github.com/rabbitmq/amqp091-go"
)

// LeadEventQueueAdapter публикует события о принятых заявках в RabbitMQ.
type LeadEventQueueAdapter struct {
	producer   *rabbitmq_producer.Publisher
	routingKey string
}

// NewLeadEventQueueAdapter создает адаптер поверх инициализированного продюсера.
func NewLeadEventQueueAdapter(producer *rabbitmq_producer.Publisher, routingKey string) (*LeadEventQueueAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}

	return &LeadEventQueueAdapter{
		producer:   producer,
		routingKey: routingKey,
	}, nil
}

// Enqueue отправляет событие о заявке в очередь.
func (a *LeadEventQueueAdapter) Enqueue(ctx context.Context, app domain.UrgentSaleApplication) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "LeadEventQueueAdapter",
		"routing_key": a.routingKey,
	})

	event := LeadEventDTO{
		Name:        app.Name,
		Phone:       app.Phone,
		City:        app.City,
		ObjectType:  app.ObjectType,
		Description: app.Description,
		AcceptedAt:  time.Now().UTC(),
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal lead event to JSON", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to marshal lead event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         eventJSON,
		DeliveryMode: amqp.Persistent, // Сохраняем сообщения при перезапуске брокера
		Timestamp:    time.Now(),
		Headers:      make(amqp.Table),
	}

	// Пробрасываем trace_id в заголовки сообщения
	traceID := contextkeys.TraceIDFromContext(ctx)
	if traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		logger.Error("Failed to publish lead event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish lead event: %w", err)
	}

	logger.Debug("Successfully published lead event", nil)
	return nil
}
