package enums

import "fmt"

type NotificationType string

const (
	NotificationTypeParcelCreated    NotificationType = "parcel_created"
	NotificationTypeStatusUpdated    NotificationType = "status_updated"
	NotificationTypeParcelCancelled  NotificationType = "parcel_cancelled"
	NotificationTypePaymentConfirmed NotificationType = "payment_confirmed"
)

func (t NotificationType) String() string { return string(t) }

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeParcelCreated, NotificationTypeStatusUpdated,
		NotificationTypeParcelCancelled, NotificationTypePaymentConfirmed:
		return true
	}
	return false
}

func ParseNotificationType(raw string) (NotificationType, error) {
	t := NotificationType(raw)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid notification type: %q", raw)
	}
	return t, nil
}
