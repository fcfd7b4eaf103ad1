package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"domio/internal/lib/logger/sl"
	"domio/internal/lib/random"
	"domio/internal/models"
	"domio/internal/payment"
	"domio/internal/pricing"
	"domio/internal/storage"

	"github.com/google/uuid"
)

type Storage interface {
	SaveBooking(ctx context.Context, b *models.Booking) error
	HasConflict(ctx context.Context, itemID string, checkIn, checkOut time.Time) (bool, error)
	Booking(ctx context.Context, id string) (*models.Booking, error)
	BookingByTransaction(ctx context.Context, transactionID string) (*models.Booking, error)
	BookingsByUser(ctx context.Context, userID string) ([]models.Booking, error)
	ConfirmBooking(ctx context.Context, id, transactionID string) error
	CancelBooking(ctx context.Context, id string) error
	MarkRefundRequested(ctx context.Context, id string, at time.Time) error
}

type Catalog interface {
	Item(ctx context.Context, typ models.ItemType, id string) (*models.Item, error)
}

type Gateway interface {
	Charge(ctx context.Context, b *models.Booking) (string, error)
}

type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

type Options struct {
	// RequirePayment creates bookings as pending until InitiatePayment
	// succeeds. Otherwise bookings are confirmed on creation.
	RequirePayment bool
	Now            func() time.Time
}

// Manager owns the booking lifecycle: pending -> confirmed -> canceled,
// or pending -> canceled. Canceled is terminal.
type Manager struct {
	log      *slog.Logger
	storage  Storage
	catalog  Catalog
	gateway  Gateway
	notifier Notifier
	pricing  *pricing.Engine
	opts     Options

	wg sync.WaitGroup
}

func New(
	log *slog.Logger,
	storage Storage,
	catalog Catalog,
	gateway Gateway,
	notifier Notifier,
	engine *pricing.Engine,
	opts Options,
) *Manager {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{
		log:      log,
		storage:  storage,
		catalog:  catalog,
		gateway:  gateway,
		notifier: notifier,
		pricing:  engine,
		opts:     opts,
	}
}

func (m *Manager) Create(ctx context.Context, requester Requester, req CreateRequest) (*models.Booking, error) {
	const op = "booking.Manager.Create"

	log := m.log.With(
		slog.String("op", op),
		slog.String("type", string(req.Type)),
		slog.String("item_id", req.ItemID),
	)

	if err := req.validate(); err != nil {
		return nil, err
	}

	item, err := m.catalog.Item(ctx, req.Type, req.ItemID)
	if err != nil {
		if errors.Is(err, storage.ErrItemNotFound) {
			return nil, newError(ErrNotFound, "%s not found", req.Type)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	in := pricing.Input{
		Type:   req.Type,
		Base:   item.Price,
		Guests: req.NumberOfGuests,
	}

	if req.Type == models.ItemPlace {
		conflict, err := m.storage.HasConflict(ctx, req.ItemID, req.Stay.CheckIn, req.Stay.CheckOut)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if conflict {
			return nil, errDatesBooked()
		}
		in.CheckIn, in.CheckOut = req.Stay.CheckIn, req.Stay.CheckOut
	}

	quote := m.pricing.Compute(in)
	now := m.opts.Now()

	transactionID := req.TransactionID
	if transactionID == "" {
		transactionID = random.TransactionID(now)
	}

	status := models.StatusConfirmed
	if m.opts.RequirePayment {
		status = models.StatusPending
	}

	b := &models.Booking{
		ID:             uuid.NewString(),
		Type:           req.Type,
		ItemID:         req.ItemID,
		UserID:         requester.UserID,
		NumberOfGuests: req.NumberOfGuests,
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		PaymentMethod:  req.PaymentMethod,
		Price:          quote.Price,
		ServiceFee:     quote.ServiceFee,
		TotalAmount:    quote.TotalAmount,
		Status:         status,
		TransactionID:  transactionID,
		CreatedAt:      now,
	}
	if req.Type == models.ItemPlace {
		checkIn, checkOut := req.Stay.CheckIn, req.Stay.CheckOut
		b.CheckIn, b.CheckOut = &checkIn, &checkOut
	} else {
		date := *req.Date
		b.Date = &date
	}

	if err = m.storage.SaveBooking(ctx, b); err != nil {
		switch {
		case errors.Is(err, storage.ErrDateConflict):
			return nil, errDatesBooked()
		case errors.Is(err, storage.ErrTransactionExists):
			return nil, errTransactionTaken()
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("booking created",
		slog.String("booking_id", b.ID),
		slog.String("status", string(b.Status)),
		slog.Float64("total", b.TotalAmount),
	)

	if b.Status == models.StatusConfirmed {
		m.sendReceipt(b, item)
	}

	return b, nil
}

// InitiatePayment charges a pending booking and confirms it on success.
// A declined payment leaves the booking pending.
func (m *Manager) InitiatePayment(ctx context.Context, bookingID string) (*models.Booking, error) {
	const op = "booking.Manager.InitiatePayment"

	log := m.log.With(slog.String("op", op), slog.String("booking_id", bookingID))

	b, err := m.load(ctx, op, bookingID)
	if err != nil {
		return nil, err
	}

	if b.Status != models.StatusPending {
		return nil, newError(ErrInvalidState, "booking is %s, only pending bookings can be paid", b.Status)
	}

	transactionID, err := m.gateway.Charge(ctx, b)
	if err != nil {
		if errors.Is(err, payment.ErrDeclined) {
			log.Warn("payment declined")
			return nil, newError(ErrPaymentDeclined, "payment failed, please try again")
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = m.storage.ConfirmBooking(ctx, b.ID, transactionID); err != nil {
		switch {
		case errors.Is(err, storage.ErrStatusChanged):
			return nil, newError(ErrInvalidState, "booking is no longer pending")
		case errors.Is(err, storage.ErrBookingNotFound):
			return nil, errBookingNotFound()
		case errors.Is(err, storage.ErrDateConflict):
			return nil, errDatesBooked()
		case errors.Is(err, storage.ErrTransactionExists):
			return nil, errTransactionTaken()
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	b.Status = models.StatusConfirmed
	b.TransactionID = transactionID

	log.Info("payment confirmed", slog.String("transaction_id", transactionID))

	m.sendReceipt(b, nil)

	return b, nil
}

func (m *Manager) Cancel(ctx context.Context, requester Requester, bookingID string) (*models.Booking, error) {
	const op = "booking.Manager.Cancel"

	log := m.log.With(slog.String("op", op), slog.String("booking_id", bookingID))

	b, err := m.load(ctx, op, bookingID)
	if err != nil {
		return nil, err
	}

	if err = authorize(requester, b); err != nil {
		log.Warn("cancel rejected", slog.String("requester", requester.UserID))
		return nil, err
	}

	if b.Status == models.StatusCanceled {
		return nil, newError(ErrInvalidState, "booking is already canceled")
	}

	if err = m.storage.CancelBooking(ctx, b.ID); err != nil {
		switch {
		case errors.Is(err, storage.ErrStatusChanged):
			return nil, newError(ErrInvalidState, "booking is already canceled")
		case errors.Is(err, storage.ErrBookingNotFound):
			return nil, errBookingNotFound()
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	b.Status = models.StatusCanceled

	log.Info("booking canceled")

	m.notify(b.Email, "Your Domio booking was canceled",
		fmt.Sprintf("Hi %s,\n\nyour booking %s has been canceled. You can request a refund from your bookings page.\n", b.Name, b.ID))

	return b, nil
}

// RequestRefund records a refund request on a canceled booking. It does not
// move money.
func (m *Manager) RequestRefund(ctx context.Context, requester Requester, bookingID string) (*models.Booking, error) {
	const op = "booking.Manager.RequestRefund"

	log := m.log.With(slog.String("op", op), slog.String("booking_id", bookingID))

	b, err := m.load(ctx, op, bookingID)
	if err != nil {
		return nil, err
	}

	if err = authorize(requester, b); err != nil {
		log.Warn("refund rejected", slog.String("requester", requester.UserID))
		return nil, err
	}

	if b.Status != models.StatusCanceled {
		return nil, newError(ErrInvalidState, "refunds can only be requested for canceled bookings")
	}
	if b.RefundRequested {
		return nil, errRefundRequested()
	}

	at := m.opts.Now()
	if err = m.storage.MarkRefundRequested(ctx, b.ID, at); err != nil {
		switch {
		case errors.Is(err, storage.ErrStatusChanged):
			return nil, errRefundRequested()
		case errors.Is(err, storage.ErrBookingNotFound):
			return nil, errBookingNotFound()
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	b.RefundRequested = true
	b.RefundRequestedAt = &at

	log.Info("refund requested")

	return b, nil
}

func (m *Manager) Get(ctx context.Context, bookingID string) (*models.Booking, error) {
	return m.load(ctx, "booking.Manager.Get", bookingID)
}

func (m *Manager) GetByTransaction(ctx context.Context, transactionID string) (*models.Booking, error) {
	const op = "booking.Manager.GetByTransaction"

	if transactionID == "" {
		return nil, newError(ErrValidation, "transactionId is required")
	}

	b, err := m.storage.BookingByTransaction(ctx, transactionID)
	if err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			return nil, errBookingNotFound()
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return b, nil
}

// ListForUser returns the requester's bookings, newest first.
func (m *Manager) ListForUser(ctx context.Context, requester Requester) ([]models.Booking, error) {
	const op = "booking.Manager.ListForUser"

	if requester.Anonymous() {
		return nil, newError(ErrUnauthorized, "authentication required")
	}

	bookings, err := m.storage.BookingsByUser(ctx, requester.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return bookings, nil
}

// CheckAvailability reports whether a place is free for [checkIn, checkOut).
func (m *Manager) CheckAvailability(ctx context.Context, placeID string, checkIn, checkOut time.Time) (bool, error) {
	const op = "booking.Manager.CheckAvailability"

	if placeID == "" {
		return false, newError(ErrValidation, "placeId is required")
	}
	if !checkOut.After(checkIn) {
		return false, newError(ErrValidation, "checkOut must be after checkIn")
	}

	if _, err := m.catalog.Item(ctx, models.ItemPlace, placeID); err != nil {
		if errors.Is(err, storage.ErrItemNotFound) {
			return false, newError(ErrNotFound, "place not found")
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	conflict, err := m.storage.HasConflict(ctx, placeID, checkIn, checkOut)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return !conflict, nil
}

// Wait blocks until queued notifications have been handed to the notifier.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) load(ctx context.Context, op, bookingID string) (*models.Booking, error) {
	if bookingID == "" {
		return nil, newError(ErrValidation, "booking id is required")
	}

	b, err := m.storage.Booking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			return nil, errBookingNotFound()
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return b, nil
}

// authorize lets anonymous requesters act on any booking, and lets
// identified requesters act on their own bookings and on ownerless ones.
func authorize(requester Requester, b *models.Booking) error {
	if requester.Anonymous() || b.UserID == "" || b.UserID == requester.UserID {
		return nil
	}
	return newError(ErrUnauthorized, "not authorized to modify this booking")
}

func (m *Manager) sendReceipt(b *models.Booking, item *models.Item) {
	title := string(b.Type)
	if item != nil && item.Title != "" {
		title = item.Title
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nyour booking for %s is confirmed.\n\nBooking: %s\nTransaction: %s\nGuests: %d\nPrice: %.2f\nService fee: %.2f\nTotal: %.2f\n",
		b.Name, title, b.ID, b.TransactionID, b.NumberOfGuests, b.Price, b.ServiceFee, b.TotalAmount,
	)

	m.notify(b.Email, "Your Domio booking is confirmed", body)
}

// notify sends in the background. Delivery failures are logged and never
// affect the booking.
func (m *Manager) notify(to, subject, body string) {
	if to == "" || m.notifier == nil {
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := m.notifier.Send(ctx, to, subject, body); err != nil {
			m.log.Error("failed to send email",
				slog.String("op", "booking.Manager.notify"),
				slog.String("to", to),
				sl.Err(err),
			)
		}
	}()
}

func errBookingNotFound() error {
	return newError(ErrNotFound, "booking not found")
}

func errDatesBooked() error {
	return newError(ErrConflict, "place is already booked for these dates")
}

func errTransactionTaken() error {
	return newError(ErrConflict, "transaction id already in use, please retry")
}

func errRefundRequested() error {
	return newError(ErrInvalidState, "refund already requested")
}
