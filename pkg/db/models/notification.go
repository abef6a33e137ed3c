package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/asifmahmud/parceltrack-backend/pkg/enums"
)

// Notification stores in-app notification payloads scoped to a recipient email.
type Notification struct {
	ID             uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RecipientEmail string                 `gorm:"type:text;not null;index"`
	Type           enums.NotificationType `gorm:"type:text;not null"`
	Title          string                 `gorm:"type:text;not null"`
	Message        string                 `gorm:"type:text;not null"`
	TrackingCode   *string                `gorm:"type:text"`
	ReadAt         *time.Time             `gorm:"type:timestamptz"`
	CreatedAt      time.Time              `gorm:"type:timestamptz;default:now()"`
}
