package handler

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/tabletop-club/table-scheduler/internal/domain"
)

// publishNotification queues a message for the notifier process. Staff email
// goes out of band; the request itself never waits on SMTP.
func (h *Handler) publishNotification(message domain.NotificationMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.notifyChannel.PublishWithContext(
		ctx,
		"",
		"notification_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// PublishWeeklyReminder queues the weekly reminder notification.
func (h *Handler) PublishWeeklyReminder() error {
	return h.publishNotification(domain.NotificationMessage{
		Type: domain.NotificationWeeklyReminder,
		To:   h.config.Email.StaffAddress,
		Data: domain.WeeklyReminderData{
			WeekOf: h.codec.Translator().Today().String(),
		},
	})
}
