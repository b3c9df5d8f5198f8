package rabbitmq

import (
	"github.com/streadway/amqp"

	"github.com/barakahtool/barakah-backend/internal/models"
)

// PurchasePublisher публикует события о завершённых покупках.
type PurchasePublisher struct {
	ch *amqp.Channel
}

func NewPurchasePublisher(ch *amqp.Channel) *PurchasePublisher {
	return &PurchasePublisher{ch: ch}
}

// PublishPurchaseCompleted отправляет уведомление о покупке
// в очередь отправки чеков.
func (p *PurchasePublisher) PublishPurchaseCompleted(notification models.PurchaseNotification) error {
	return PublishMessage(p.ch, Exchange, ReceiptQueue.RoutingKey, notification)
}
