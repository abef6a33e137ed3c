package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/asifmahmud/parceltrack-backend/pkg/db/models"
	"github.com/asifmahmud/parceltrack-backend/pkg/enums"
	"github.com/asifmahmud/parceltrack-backend/pkg/logger"
	"github.com/asifmahmud/parceltrack-backend/pkg/outbox"
	"github.com/asifmahmud/parceltrack-backend/pkg/outbox/idempotency"
)

const parcelNotificationConsumer = "parcel-notifications"

type repository interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// Consumer watches parcel domain events and turns them into in-app notifications
// for the merchant that booked the parcel.
type Consumer struct {
	repo         repository
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	logg         *logger.Logger
}

// NewConsumer builds a parcel notification consumer.
func NewConsumer(repo repository, subscription *pubsub.Subscriber, manager *idempotency.Manager, logg *logger.Logger) (*Consumer, error) {
	if repo == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("notification subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		repo:         repo,
		subscription: subscription,
		idempotency:  manager,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := enums.OutboxEventType(msg.Attributes["event_type"])
	fields := map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	}
	logCtx := c.logg.WithFields(ctx, fields)

	notifType, handled := notificationTypeFor(eventType)
	if !handled {
		c.logg.Info(logCtx, "skipping unhandled event type")
		return processResult{ack: true}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, parcelNotificationConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	notification, err := buildNotification(eventType, notifType, envelope.Data)
	if err != nil {
		c.logg.Error(logCtx, "failed to parse payload", err)
		_ = c.idempotency.Delete(ctx, parcelNotificationConsumer, eventID)
		return processResult{nack: true}
	}
	if notification == nil {
		c.logg.Info(logCtx, "event carries no recipient")
		return processResult{ack: true}
	}

	if err := c.repo.Create(ctx, notification); err != nil {
		c.logg.Error(logCtx, "notification write failed", err)
		_ = c.idempotency.Delete(ctx, parcelNotificationConsumer, eventID)
		return processResult{nack: true}
	}

	c.logg.Info(c.logg.WithFields(logCtx, map[string]any{
		"recipient": notification.RecipientEmail,
	}), "merchant notified of parcel event")
	return processResult{ack: true}
}

func notificationTypeFor(eventType enums.OutboxEventType) (enums.NotificationType, bool) {
	switch eventType {
	case enums.OutboxEventParcelCreated:
		return enums.NotificationTypeParcelCreated, true
	case enums.OutboxEventStatusUpdated:
		return enums.NotificationTypeStatusUpdated, true
	case enums.OutboxEventParcelCancelled:
		return enums.NotificationTypeParcelCancelled, true
	case enums.OutboxEventPaymentConfirmed:
		return enums.NotificationTypePaymentConfirmed, true
	}
	return "", false
}

func buildNotification(eventType enums.OutboxEventType, notifType enums.NotificationType, data json.RawMessage) (*models.Notification, error) {
	switch eventType {
	case enums.OutboxEventParcelCreated:
		var payload outbox.ParcelCreatedPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, err
		}
		if payload.MerchantEmail == "" {
			return nil, nil
		}
		return &models.Notification{
			RecipientEmail: payload.MerchantEmail,
			Type:           notifType,
			Title:          "Parcel booked",
			Message:        fmt.Sprintf("Parcel %s has been booked and is pending pickup.", payload.TrackingCode),
			TrackingCode:   stringPtr(payload.TrackingCode),
		}, nil

	case enums.OutboxEventStatusUpdated, enums.OutboxEventParcelCancelled:
		var payload outbox.StatusUpdatedPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, err
		}
		if payload.MerchantEmail == "" {
			return nil, nil
		}
		title := "Parcel status updated"
		message := fmt.Sprintf("Parcel %s moved from %s to %s.", payload.TrackingCode, payload.OldStatus, payload.NewStatus)
		if eventType == enums.OutboxEventParcelCancelled {
			title = "Parcel cancelled"
			message = fmt.Sprintf("Parcel %s has been cancelled.", payload.TrackingCode)
		}
		return &models.Notification{
			RecipientEmail: payload.MerchantEmail,
			Type:           notifType,
			Title:          title,
			Message:        message,
			TrackingCode:   stringPtr(payload.TrackingCode),
		}, nil

	case enums.OutboxEventPaymentConfirmed:
		var payload outbox.PaymentConfirmedPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, err
		}
		if payload.MerchantEmail == "" {
			return nil, nil
		}
		return &models.Notification{
			RecipientEmail: payload.MerchantEmail,
			Type:           notifType,
			Title:          "Payment confirmed",
			Message:        fmt.Sprintf("Payment of %s received for parcel %s.", payload.Amount, payload.TrackingCode),
			TrackingCode:   stringPtr(payload.TrackingCode),
		}, nil
	}
	return nil, nil
}

func stringPtr(value string) *string {
	return &value
}
