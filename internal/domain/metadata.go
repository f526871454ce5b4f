package domain

import (
	"errors"
	"fmt"
)

// Metadata keys as they round-trip through the payment provider.
const (
	MetadataKeyOrderNumber   = "orderNumber"
	MetadataKeyCustomerName  = "customerName"
	MetadataKeyCustomerEmail = "customerEmail"
	MetadataKeyUserID        = "userId"
)

var ErrInvalidMetadata = errors.New("invalid checkout metadata")

// CheckoutMetadata is attached to a checkout session at creation and read
// back verbatim from the completed-payment webhook. The provider treats it
// as an untyped key/value bag, so it is validated at both boundaries.
type CheckoutMetadata struct {
	OrderNumber   string `json:"order_number"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	UserID        string `json:"user_id"`
}

func (m CheckoutMetadata) Validate() error {
	if m.OrderNumber == "" {
		return fmt.Errorf("%w: missing %s", ErrInvalidMetadata, MetadataKeyOrderNumber)
	}
	if m.CustomerEmail == "" {
		return fmt.Errorf("%w: missing %s", ErrInvalidMetadata, MetadataKeyCustomerEmail)
	}
	return nil
}

// ToMap flattens the metadata into the provider's key/value form.
func (m CheckoutMetadata) ToMap() map[string]string {
	return map[string]string{
		MetadataKeyOrderNumber:   m.OrderNumber,
		MetadataKeyCustomerName:  m.CustomerName,
		MetadataKeyCustomerEmail: m.CustomerEmail,
		MetadataKeyUserID:        m.UserID,
	}
}

// MetadataFromMap rebuilds the typed metadata from the provider's bag and
// fails loudly if required fields are absent rather than trusting the cast.
func MetadataFromMap(raw map[string]string) (CheckoutMetadata, error) {
	m := CheckoutMetadata{
		OrderNumber:   raw[MetadataKeyOrderNumber],
		CustomerName:  raw[MetadataKeyCustomerName],
		CustomerEmail: raw[MetadataKeyCustomerEmail],
		UserID:        raw[MetadataKeyUserID],
	}
	if err := m.Validate(); err != nil {
		return CheckoutMetadata{}, err
	}
	return m, nil
}
