package services

import "go.uber.org/zap"

// Event types published by the services.
const (
	EventProductCreated  = "product.created"
	EventProductUpdated  = "product.updated"
	EventProductDeleted  = "product.deleted"
	EventCheckoutStarted = "checkout.started"
)

// EventPublisher publishes domain events. A nil publisher disables publishing.
type EventPublisher interface {
	PublishEvent(eventType string, payload interface{}) error
}

// publish sends an event and only logs a failure; the write it describes already happened.
func publish(p EventPublisher, logger *zap.Logger, eventType string, payload interface{}) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(eventType, payload); err != nil {
		logger.Warn("failed to publish event", zap.String("type", eventType), zap.Error(err))
	}
}
