package enums

import "fmt"

// PaymentStatus moves one way: not_paid -> paid.
type PaymentStatus string

const (
	PaymentStatusNotPaid PaymentStatus = "not_paid"
	PaymentStatusPaid    PaymentStatus = "paid"
)

func (s PaymentStatus) String() string { return string(s) }

func (s PaymentStatus) IsValid() bool {
	return s == PaymentStatusNotPaid || s == PaymentStatusPaid
}

func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	s := PaymentStatus(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid payment status: %q", raw)
	}
	return s, nil
}
