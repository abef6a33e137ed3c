package parcels

import (
	"time"

	"github.com/asifmahmud/parceltrack-backend/pkg/db/models"
)

// CentralHub is the distinguished hub name the same-region rule keys on.
const CentralHub = "Central Hub"

const (
	cancelWindowHours          = 24.0
	sameRegionCrossHubHours    = 8.0
	reasonSameRegionCentralHub = "cannot cancel: same regional central hub"
	reasonWindowExpired        = "cancellation window (24h) expired"
	reasonCrossHubExpired      = "cancellation window (8h) expired for same-region cross-hub"
)

// Decision is the outcome of a cancellation evaluation. Reason is set only
// when Allowed is false and is surfaced to the caller verbatim.
type Decision struct {
	Allowed bool
	Reason  string
}

// EvaluateCancellation applies the cancellation rules in order; the first
// matching rule wins. Window boundaries are inclusive: a parcel created
// exactly 24.0 (or 8.0) hours ago may still cancel.
func EvaluateCancellation(parcel *models.Parcel, now time.Time) Decision {
	sameRegion := parcel.SenderRegion == parcel.ReceiverRegion

	if sameRegion && parcel.SenderHub == CentralHub && parcel.ReceiverHub == CentralHub {
		return Decision{Reason: reasonSameRegionCentralHub}
	}

	hours := now.Sub(parcel.CreatedAt).Hours()
	if hours > cancelWindowHours {
		return Decision{Reason: reasonWindowExpired}
	}

	if sameRegion && parcel.SenderHub != parcel.ReceiverHub && hours > sameRegionCrossHubHours {
		return Decision{Reason: reasonCrossHubExpired}
	}

	return Decision{Allowed: true}
}
