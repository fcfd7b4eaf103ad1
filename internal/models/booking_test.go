package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func TestItemTypeValid(t *testing.T) {
	t.Parallel()

	assert.True(t, ItemPlace.Valid())
	assert.True(t, ItemExperience.Valid())
	assert.True(t, ItemService.Valid())
	assert.False(t, ItemType("castle").Valid())
	assert.False(t, ItemType("").Valid())
}

func TestBookingOverlaps(t *testing.T) {
	t.Parallel()

	ci, co := day(10), day(13)
	existing := Booking{
		Type:     ItemPlace,
		ItemID:   "p1",
		Status:   StatusConfirmed,
		CheckIn:  &ci,
		CheckOut: &co,
	}

	testCases := []struct {
		name     string
		mutate   func(b *Booking)
		itemID   string
		checkIn  time.Time
		checkOut time.Time
		expected bool
	}{
		{name: "partial overlap", itemID: "p1", checkIn: day(12), checkOut: day(15), expected: true},
		{name: "contained", itemID: "p1", checkIn: day(11), checkOut: day(12), expected: true},
		{name: "enclosing", itemID: "p1", checkIn: day(9), checkOut: day(14), expected: true},
		{name: "back to back after", itemID: "p1", checkIn: day(13), checkOut: day(15), expected: false},
		{name: "back to back before", itemID: "p1", checkIn: day(8), checkOut: day(10), expected: false},
		{name: "other item", itemID: "p2", checkIn: day(11), checkOut: day(12), expected: false},
		{
			name:     "canceled never blocks",
			mutate:   func(b *Booking) { b.Status = StatusCanceled },
			itemID:   "p1",
			checkIn:  day(11),
			checkOut: day(12),
			expected: false,
		},
		{
			name:     "pending never blocks",
			mutate:   func(b *Booking) { b.Status = StatusPending },
			itemID:   "p1",
			checkIn:  day(11),
			checkOut: day(12),
			expected: false,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			b := existing
			if tc.mutate != nil {
				tc.mutate(&b)
			}

			assert.Equal(t, tc.expected, b.Overlaps(tc.itemID, tc.checkIn, tc.checkOut))
		})
	}
}

func TestBookingView(t *testing.T) {
	t.Parallel()

	b := Booking{ID: "b1", UserID: "u1", Phone: "555", Name: "Ann", TotalAmount: 10, TransactionID: "TXN-1"}
	v := b.View()

	assert.Equal(t, "b1", v.ID)
	assert.Equal(t, "Ann", v.Name)
	assert.Equal(t, "TXN-1", v.TransactionID)
}
