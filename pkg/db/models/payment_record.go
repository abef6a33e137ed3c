package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRecord is the denormalized payment ledger row written when a parcel's
// payment is confirmed. The unique tracking_code index enforces at most one
// confirmation per parcel at the storage level.
type PaymentRecord struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ParcelID      uuid.UUID       `gorm:"column:parcel_id;type:uuid;not null"`
	TrackingCode  string          `gorm:"column:tracking_code;type:text;not null;uniqueIndex"`
	MerchantEmail string          `gorm:"column:merchant_email;type:text;not null;index"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	Method        string          `gorm:"column:method;type:text;not null"`
	Reference     string          `gorm:"column:reference;type:text"`
	PaidAt        time.Time       `gorm:"column:paid_at;not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}
