package gateway

import "context"

// EventPublisher é o fanout de notificações de mudança de status.
// Fire-and-forget: falha aqui nunca aborta a transição que a disparou.
type EventPublisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body interface{}) error
}
