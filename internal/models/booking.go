package models

import "time"

type ItemType string

const (
	ItemPlace      ItemType = "place"
	ItemExperience ItemType = "experience"
	ItemService    ItemType = "service"
)

func (t ItemType) Valid() bool {
	switch t {
	case ItemPlace, ItemExperience, ItemService:
		return true
	}
	return false
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCanceled  Status = "canceled"
)

type Booking struct {
	ID                string     `json:"id"`
	Type              ItemType   `json:"type"`
	ItemID            string     `json:"itemId"`
	UserID            string     `json:"user,omitempty"`
	CheckIn           *time.Time `json:"checkIn,omitempty"`
	CheckOut          *time.Time `json:"checkOut,omitempty"`
	Date              *time.Time `json:"date,omitempty"`
	NumberOfGuests    int        `json:"numberOfGuests"`
	Name              string     `json:"name"`
	Phone             string     `json:"phone"`
	Email             string     `json:"email,omitempty"`
	PaymentMethod     string     `json:"paymentMethod"`
	Price             float64    `json:"price"`
	ServiceFee        float64    `json:"serviceFee"`
	TotalAmount       float64    `json:"totalAmount"`
	Status            Status     `json:"status"`
	RefundRequested   bool       `json:"refundRequested"`
	RefundRequestedAt *time.Time `json:"refundRequestedAt,omitempty"`
	TransactionID     string     `json:"transactionId"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// Overlaps reports whether b is a confirmed place booking on itemID whose
// [CheckIn, CheckOut) range intersects [checkIn, checkOut).
func (b *Booking) Overlaps(itemID string, checkIn, checkOut time.Time) bool {
	if b.Type != ItemPlace || b.Status != StatusConfirmed || b.ItemID != itemID {
		return false
	}
	if b.CheckIn == nil || b.CheckOut == nil {
		return false
	}
	return b.CheckIn.Before(checkOut) && b.CheckOut.After(checkIn)
}

// BookingView is the subset of a booking shown to anyone holding its
// transaction token.
type BookingView struct {
	ID             string     `json:"id"`
	Type           ItemType   `json:"type"`
	ItemID         string     `json:"itemId"`
	CheckIn        *time.Time `json:"checkIn,omitempty"`
	CheckOut       *time.Time `json:"checkOut,omitempty"`
	Date           *time.Time `json:"date,omitempty"`
	NumberOfGuests int        `json:"numberOfGuests"`
	Name           string     `json:"name"`
	TotalAmount    float64    `json:"totalAmount"`
	Status         Status     `json:"status"`
	TransactionID  string     `json:"transactionId"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func (b *Booking) View() BookingView {
	return BookingView{
		ID:             b.ID,
		Type:           b.Type,
		ItemID:         b.ItemID,
		CheckIn:        b.CheckIn,
		CheckOut:       b.CheckOut,
		Date:           b.Date,
		NumberOfGuests: b.NumberOfGuests,
		Name:           b.Name,
		TotalAmount:    b.TotalAmount,
		Status:         b.Status,
		TransactionID:  b.TransactionID,
		CreatedAt:      b.CreatedAt,
	}
}
