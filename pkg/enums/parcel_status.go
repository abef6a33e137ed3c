package enums

import "fmt"

// ParcelStatus is the lifecycle state of a parcel. Once a parcel reaches a
// terminal state it never leaves it.
type ParcelStatus string

const (
	ParcelStatusPending        ParcelStatus = "pending"
	ParcelStatusPickedUp       ParcelStatus = "picked_up"
	ParcelStatusInTransit      ParcelStatus = "in_transit"
	ParcelStatusOutForDelivery ParcelStatus = "out_for_delivery"
	ParcelStatusDelivered      ParcelStatus = "delivered"
	ParcelStatusCancelled      ParcelStatus = "cancelled"
)

func (s ParcelStatus) String() string { return string(s) }

func (s ParcelStatus) IsValid() bool {
	switch s {
	case ParcelStatusPending, ParcelStatusPickedUp, ParcelStatusInTransit,
		ParcelStatusOutForDelivery, ParcelStatusDelivered, ParcelStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions.
func (s ParcelStatus) IsTerminal() bool {
	return s == ParcelStatusDelivered || s == ParcelStatusCancelled
}

func ParseParcelStatus(raw string) (ParcelStatus, error) {
	s := ParcelStatus(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid parcel status: %q", raw)
	}
	return s, nil
}
