package booking

import (
	"strings"
	"time"

	"domio/internal/models"
)

// Requester identifies who is calling an operation. The zero value is an
// unauthenticated guest.
type Requester struct {
	UserID string
}

func Guest() Requester {
	return Requester{}
}

func User(id string) Requester {
	return Requester{UserID: id}
}

func (r Requester) Anonymous() bool {
	return r.UserID == ""
}

// Stay is the date range of a place booking, checkIn inclusive and
// checkOut exclusive.
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// CreateRequest carries either Stay (places) or Date (experiences and
// services), selected by Type.
type CreateRequest struct {
	Type           models.ItemType
	ItemID         string
	NumberOfGuests int
	Name           string
	Phone          string
	Email          string
	PaymentMethod  string
	TransactionID  string

	Stay *Stay
	Date *time.Time
}

func (r CreateRequest) validate() error {
	var missing []string
	if r.ItemID == "" {
		missing = append(missing, "itemId")
	}
	if r.Name == "" {
		missing = append(missing, "name")
	}
	if r.Phone == "" {
		missing = append(missing, "phone")
	}
	if r.PaymentMethod == "" {
		missing = append(missing, "paymentMethod")
	}
	if len(missing) > 0 {
		return newError(ErrValidation, "missing required fields: %s", strings.Join(missing, ", "))
	}

	if !r.Type.Valid() {
		return newError(ErrValidation, "invalid booking type %q", r.Type)
	}
	if r.NumberOfGuests < 1 {
		return newError(ErrValidation, "numberOfGuests must be a positive integer")
	}

	switch r.Type {
	case models.ItemPlace:
		if r.Stay == nil || r.Stay.CheckIn.IsZero() || r.Stay.CheckOut.IsZero() {
			return newError(ErrValidation, "checkIn and checkOut are required for place bookings")
		}
		if !r.Stay.CheckOut.After(r.Stay.CheckIn) {
			return newError(ErrValidation, "checkOut must be after checkIn")
		}
		if r.Date != nil {
			return newError(ErrValidation, "date is not allowed for place bookings")
		}
	default:
		if r.Date == nil || r.Date.IsZero() {
			return newError(ErrValidation, "date is required for %s bookings", r.Type)
		}
		if r.Stay != nil {
			return newError(ErrValidation, "checkIn and checkOut are only allowed for place bookings")
		}
	}

	return nil
}
