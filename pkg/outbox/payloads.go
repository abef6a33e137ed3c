package outbox

import "time"

// ParcelCreatedPayload is the data section of parcel.created events.
type ParcelCreatedPayload struct {
	ParcelID       string `json:"parcelId"`
	TrackingCode   string `json:"trackingCode"`
	MerchantEmail  string `json:"merchantEmail"`
	SenderRegion   string `json:"senderRegion"`
	ReceiverRegion string `json:"receiverRegion"`
	Fare           string `json:"fare"`
}

// StatusUpdatedPayload is the data section of parcel.status_updated and
// parcel.cancelled events.
type StatusUpdatedPayload struct {
	ParcelID      string `json:"parcelId"`
	TrackingCode  string `json:"trackingCode"`
	MerchantEmail string `json:"merchantEmail"`
	OldStatus     string `json:"oldStatus"`
	NewStatus     string `json:"newStatus"`
}

// PaymentConfirmedPayload is the data section of parcel.payment_confirmed events.
type PaymentConfirmedPayload struct {
	ParcelID      string    `json:"parcelId"`
	TrackingCode  string    `json:"trackingCode"`
	MerchantEmail string    `json:"merchantEmail"`
	Amount        string    `json:"amount"`
	Method        string    `json:"method"`
	PaidAt        time.Time `json:"paidAt"`
}

// ParcelDeletedPayload is the data section of parcel.deleted events.
type ParcelDeletedPayload struct {
	ParcelID     string `json:"parcelId"`
	TrackingCode string `json:"trackingCode"`
	LastStatus   string `json:"lastStatus"`
}
