package storage

import "errors"

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrItemNotFound      = errors.New("item not found")
	ErrDateConflict      = errors.New("dates already booked")
	ErrTransactionExists = errors.New("transaction id already exists")
	// ErrStatusChanged is returned by conditional transitions when the stored
	// booking is no longer in the state the update expects.
	ErrStatusChanged = errors.New("booking status changed")
)
