package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/asifmahmud/parceltrack-backend/pkg/enums"
)

// Parcel is the root record of the delivery lifecycle. TrackingCode is
// immutable once issued; Status and PaymentStatus only move the way the
// coordinator allows.
type Parcel struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TrackingCode   string              `gorm:"column:tracking_code;type:text;not null;uniqueIndex"`
	MerchantName   string              `gorm:"column:merchant_name;type:text;not null"`
	MerchantEmail  string              `gorm:"column:merchant_email;type:text;not null;index"`
	SenderRegion   string              `gorm:"column:sender_region;type:text;not null"`
	ReceiverRegion string              `gorm:"column:receiver_region;type:text;not null"`
	SenderHub      string              `gorm:"column:sender_hub;type:text;not null"`
	ReceiverHub    string              `gorm:"column:receiver_hub;type:text;not null"`
	ParcelType     string              `gorm:"column:parcel_type;type:text;not null"`
	Fare           decimal.Decimal     `gorm:"column:fare;type:numeric(12,2);not null"`
	Status         enums.ParcelStatus  `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentStatus  enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'not_paid'"`
	DeliveredAt    *time.Time          `gorm:"column:delivered_at"`
	PaidAt         *time.Time          `gorm:"column:paid_at"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
