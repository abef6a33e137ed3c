package enums

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusPublished OutboxStatus = "published"
	OutboxStatusFailed    OutboxStatus = "failed"
)

func (s OutboxStatus) String() string { return string(s) }

type OutboxEventType string

const (
	OutboxEventParcelCreated    OutboxEventType = "parcel.created"
	OutboxEventStatusUpdated    OutboxEventType = "parcel.status_updated"
	OutboxEventParcelCancelled  OutboxEventType = "parcel.cancelled"
	OutboxEventParcelDeleted    OutboxEventType = "parcel.deleted"
	OutboxEventPaymentConfirmed OutboxEventType = "parcel.payment_confirmed"
)

func (t OutboxEventType) String() string { return string(t) }

type OutboxAggregateType string

const (
	OutboxAggregateParcel OutboxAggregateType = "parcel"
)

func (t OutboxAggregateType) String() string { return string(t) }
