package rabbitmq

import (
	"github.com/streadway/amqp"

	rabbitmqlib "github.com/magabrotheeeer/identity-service/internal/lib/rabbitmq"
)

// Publisher публикует доменные события в exchange сервиса.
type Publisher struct {
	ch       *amqp.Channel
	exchange string
}

// NewPublisher создает публикатор поверх открытого канала.
func NewPublisher(ch *amqp.Channel, exchange string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange}
}

// Publish отправляет событие с заданным ключом маршрутизации.
func (p *Publisher) Publish(routingKey string, message any) error {
	return rabbitmqlib.PublishMessage(p.ch, p.exchange, routingKey, message)
}
