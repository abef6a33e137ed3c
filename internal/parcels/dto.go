package parcels

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/asifmahmud/parceltrack-backend/pkg/enums"
)

// CreateParcelInput captures what a merchant submits when booking a parcel.
// Status and payment status are forced server-side regardless of input.
type CreateParcelInput struct {
	TrackingCode   string
	MerchantName   string
	MerchantEmail  string
	SenderRegion   string
	ReceiverRegion string
	SenderHub      string
	ReceiverHub    string
	ParcelType     string
	Fare           decimal.Decimal
}

// CancelParcelInput identifies the parcel and the actor requesting cancellation.
type CancelParcelInput struct {
	ParcelID   uuid.UUID
	ActorEmail string
	ActorRole  string
}

// AdvanceStatusInput carries the privileged status change request.
type AdvanceStatusInput struct {
	ParcelID   uuid.UUID
	NewStatus  enums.ParcelStatus
	ActorEmail string
	ActorRole  string
}

// ConfirmPaymentInput carries the payment confirmation for a tracking code.
type ConfirmPaymentInput struct {
	TrackingCode string
	Amount       decimal.Decimal
	Method       string
	Reference    string
	ActorEmail   string
	ActorRole    string
}

// DeleteParcelInput identifies the parcel marked for removal.
type DeleteParcelInput struct {
	ParcelID   uuid.UUID
	ActorEmail string
	ActorRole  string
}

// ParcelSummary is the list-view projection returned to merchants.
type ParcelSummary struct {
	ID            uuid.UUID           `json:"id"`
	TrackingCode  string              `json:"tracking_code"`
	ReceiverHub   string              `json:"receiver_hub"`
	ParcelType    string              `json:"parcel_type"`
	Fare          decimal.Decimal     `json:"fare"`
	Status        enums.ParcelStatus  `json:"status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time           `json:"created_at"`
}
