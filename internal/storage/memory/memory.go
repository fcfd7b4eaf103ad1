package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"domio/internal/models"
	"domio/internal/storage"
)

// Storage keeps bookings and catalog items in process memory. Writes that
// can block a date range are serialized per item.
type Storage struct {
	mu       sync.RWMutex
	items    map[itemKey]models.Item
	bookings map[string]*models.Booking
	byTxn    map[string]string

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

type itemKey struct {
	typ models.ItemType
	id  string
}

func New() *Storage {
	return &Storage{
		items:    make(map[itemKey]models.Item),
		bookings: make(map[string]*models.Booking),
		byTxn:    make(map[string]string),
		locks:    make(map[string]*sync.Mutex),
	}
}

// Close is a no-op; it lets Storage stand in for the postgres store.
func (s *Storage) Close() error {
	return nil
}

func (s *Storage) AddItem(_ context.Context, item models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[itemKey{typ: item.Type, id: item.ID}] = item
	return nil
}

func (s *Storage) Item(_ context.Context, typ models.ItemType, id string) (*models.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[itemKey{typ: typ, id: id}]
	if !ok {
		return nil, storage.ErrItemNotFound
	}
	return &item, nil
}

func (s *Storage) itemLock(itemID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	l, ok := s.locks[itemID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[itemID] = l
	}
	return l
}

func (s *Storage) SaveBooking(_ context.Context, b *models.Booking) error {
	if b.Type == models.ItemPlace && b.Status == models.StatusConfirmed {
		l := s.itemLock(b.ItemID)
		l.Lock()
		defer l.Unlock()

		if s.conflicts(b.ItemID, *b.CheckIn, *b.CheckOut, b.ID) {
			return storage.ErrDateConflict
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byTxn[b.TransactionID]; ok {
		return storage.ErrTransactionExists
	}

	stored := *b
	s.bookings[b.ID] = &stored
	s.byTxn[b.TransactionID] = b.ID

	return nil
}

func (s *Storage) conflicts(itemID string, checkIn, checkOut time.Time, exceptID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, b := range s.bookings {
		if id != exceptID && b.Overlaps(itemID, checkIn, checkOut) {
			return true
		}
	}
	return false
}

func (s *Storage) HasConflict(_ context.Context, itemID string, checkIn, checkOut time.Time) (bool, error) {
	return s.conflicts(itemID, checkIn, checkOut, ""), nil
}

func (s *Storage) Booking(_ context.Context, id string) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, storage.ErrBookingNotFound
	}
	out := *b
	return &out, nil
}

func (s *Storage) BookingByTransaction(ctx context.Context, transactionID string) (*models.Booking, error) {
	s.mu.RLock()
	id, ok := s.byTxn[transactionID]
	s.mu.RUnlock()

	if !ok {
		return nil, storage.ErrBookingNotFound
	}
	return s.Booking(ctx, id)
}

func (s *Storage) BookingsByUser(_ context.Context, userID string) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Booking
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (s *Storage) ConfirmBooking(_ context.Context, id, transactionID string) error {
	s.mu.RLock()
	b, ok := s.bookings[id]
	var itemID string
	var isPlace bool
	if ok {
		itemID, isPlace = b.ItemID, b.Type == models.ItemPlace
	}
	s.mu.RUnlock()

	if !ok {
		return storage.ErrBookingNotFound
	}

	if isPlace {
		l := s.itemLock(itemID)
		l.Lock()
		defer l.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if b.Status != models.StatusPending {
		return storage.ErrStatusChanged
	}
	if isPlace {
		for otherID, other := range s.bookings {
			if otherID != id && other.Overlaps(itemID, *b.CheckIn, *b.CheckOut) {
				return storage.ErrDateConflict
			}
		}
	}
	if owner, exists := s.byTxn[transactionID]; exists && owner != id {
		return storage.ErrTransactionExists
	}

	delete(s.byTxn, b.TransactionID)
	b.Status = models.StatusConfirmed
	b.TransactionID = transactionID
	s.byTxn[transactionID] = id

	return nil
}

func (s *Storage) CancelBooking(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return storage.ErrBookingNotFound
	}
	if b.Status == models.StatusCanceled {
		return storage.ErrStatusChanged
	}

	b.Status = models.StatusCanceled
	return nil
}

func (s *Storage) MarkRefundRequested(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return storage.ErrBookingNotFound
	}
	if b.Status != models.StatusCanceled || b.RefundRequested {
		return storage.ErrStatusChanged
	}

	b.RefundRequested = true
	b.RefundRequestedAt = &at
	return nil
}
