package services

import "log"

// Shop event types published after successful writes.
const (
	EventUserRegistered  = "user.registered"
	EventProductAdded    = "product.added"
	EventCartItemAdded   = "cart.item.added"
	EventCartItemRemoved = "cart.item.removed"
	EventCartItemUpdated = "cart.item.updated"
)

// EventPublisher publishes shop events. *rabbitmq.Client satisfies it.
type EventPublisher interface {
	PublishEvent(eventType string, data interface{}) error
}

// publish sends an event if a publisher is configured. Failures are logged
// and never surface to the caller: the write has already happened.
func publish(p EventPublisher, eventType string, data interface{}) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(eventType, data); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}
