package services

import (
	"encoding/json"
	"time"

	"roti/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Routing keys of the events the store publishes.
const (
	RoutingKeyOrderCreated             = "order.created"
	RoutingKeyConfigurationInvalidated = "product.configuration.invalidated"
)

// EventPublisher publishes an event body under a routing key.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// OrderCreatedEvent is published after an order is stored.
type OrderCreatedEvent struct {
	OrderID string             `json:"order_id"`
	UserID  string             `json:"user_id"`
	Status  string             `json:"status"`
	Total   decimal.Decimal    `json:"total"`
	Items   []models.OrderItem `json:"items"`
}

// ConfigurationInvalidatedEvent tells every replica to drop its cached
// configuration of a product. An empty ProductID means every product.
type ConfigurationInvalidatedEvent struct {
	ProductID string    `json:"product_id,omitempty"`
	At        time.Time `json:"at"`
}

// publishJSON publishes payload if a publisher is configured. Failures are
// logged, never returned: the write that triggered the event has committed.
func publishJSON(publisher EventPublisher, logger *zap.Logger, routingKey string, payload interface{}) {
	if publisher == nil {
		logger.Debug("Event publisher not configured, skipping event", zap.String("routing_key", routingKey))
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal event", zap.String("routing_key", routingKey), zap.Error(err))
		return
	}
	if err := publisher.Publish(routingKey, body); err != nil {
		logger.Warn("Failed to publish event", zap.String("routing_key", routingKey), zap.Error(err))
		return
	}
	logger.Debug("Published event", zap.String("routing_key", routingKey))
}
