package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/asifmahmud/parceltrack-backend/pkg/enums"
)

// TrackingEvent is an append-only ledger row. ParcelID is a weak reference:
// events survive parcel deletion and may be appended before the parcel exists.
type TrackingEvent struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ParcelID     uuid.UUID          `gorm:"column:parcel_id;type:uuid;not null;index"`
	TrackingCode string             `gorm:"column:tracking_code;type:text;not null;index"`
	Status       enums.ParcelStatus `gorm:"column:status;type:text;not null"`
	Message      string             `gorm:"column:message;type:text;not null"`
	Actor        string             `gorm:"column:actor;type:text;not null;default:'System'"`
	EventAt      time.Time          `gorm:"column:event_at;not null"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
}
