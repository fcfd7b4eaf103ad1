package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"domio/internal/config"
	"domio/internal/models"
	"domio/internal/storage"

	"github.com/lib/pq"
)

const (
	codeUniqueViolation    = "23505"
	codeExclusionViolation = "23P01"

	constraintNoOverlap     = "bookings_no_overlap"
	constraintTransactionID = "bookings_transaction_id_key"
)

type Storage struct {
	DB *sql.DB
}

func InitDB(dbCfg *config.Database) (*Storage, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.User,
		dbCfg.Password,
		dbCfg.DBName,
		dbCfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}

	return &Storage{DB: db}, nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

// Migrate creates the catalog and booking tables. Overlapping confirmed
// place bookings are rejected by the bookings_no_overlap exclusion
// constraint, so concurrent creates cannot double-book a place.
func (s *Storage) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,
		`CREATE TABLE IF NOT EXISTS items (
			id      TEXT NOT NULL,
			type    TEXT NOT NULL CHECK (type IN ('place', 'experience', 'service')),
			title   TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			price   NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
			PRIMARY KEY (type, id)
		)`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id                  TEXT PRIMARY KEY,
			type                TEXT NOT NULL CHECK (type IN ('place', 'experience', 'service')),
			item_id             TEXT NOT NULL,
			user_id             TEXT,
			check_in            TIMESTAMPTZ,
			check_out           TIMESTAMPTZ,
			date                TIMESTAMPTZ,
			number_of_guests    INTEGER NOT NULL CHECK (number_of_guests > 0),
			name                TEXT NOT NULL,
			phone               TEXT NOT NULL,
			email               TEXT NOT NULL DEFAULT '',
			payment_method      TEXT NOT NULL,
			price               NUMERIC(12, 2) NOT NULL,
			service_fee         NUMERIC(12, 2) NOT NULL,
			total_amount        NUMERIC(12, 2) NOT NULL,
			status              TEXT NOT NULL CHECK (status IN ('pending', 'confirmed', 'canceled')),
			refund_requested    BOOLEAN NOT NULL DEFAULT FALSE,
			refund_requested_at TIMESTAMPTZ,
			transaction_id      TEXT NOT NULL,
			created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT bookings_transaction_id_key UNIQUE (transaction_id),
			CONSTRAINT bookings_dates_by_type CHECK (
				(type = 'place' AND check_in IS NOT NULL AND check_out > check_in AND date IS NULL)
				OR (type <> 'place' AND date IS NOT NULL AND check_in IS NULL AND check_out IS NULL)
			),
			CONSTRAINT bookings_no_overlap EXCLUDE USING gist (
				item_id WITH =,
				tstzrange(check_in, check_out, '[)') WITH &&
			) WHERE (type = 'place' AND status = 'confirmed')
		)`,
		`CREATE INDEX IF NOT EXISTS bookings_user_id_idx ON bookings (user_id, created_at DESC)`,
	}

	for _, stmt := range stmts {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
	}

	return nil
}

func (s *Storage) AddItem(ctx context.Context, item models.Item) error {
	query := `
		INSERT INTO items (id, type, title, address, price)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (type, id) DO UPDATE
		SET title = EXCLUDED.title, address = EXCLUDED.address, price = EXCLUDED.price`

	_, err := s.DB.ExecContext(ctx, query, item.ID, string(item.Type), item.Title, item.Address, item.Price)
	if err != nil {
		return fmt.Errorf("failed to add item: %w", err)
	}

	return nil
}

func (s *Storage) Item(ctx context.Context, typ models.ItemType, id string) (*models.Item, error) {
	query := `
		SELECT id, type, title, address, price
		FROM items
		WHERE type = $1 AND id = $2`

	var item models.Item
	var itemType string
	err := s.DB.QueryRowContext(ctx, query, string(typ), id).Scan(
		&item.ID,
		&itemType,
		&item.Title,
		&item.Address,
		&item.Price,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	item.Type = models.ItemType(itemType)

	return &item, nil
}

func (s *Storage) SaveBooking(ctx context.Context, b *models.Booking) error {
	query := `
		INSERT INTO bookings (
			id, type, item_id, user_id, check_in, check_out, date,
			number_of_guests, name, phone, email, payment_method,
			price, service_fee, total_amount, status,
			refund_requested, refund_requested_at, transaction_id, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`

	_, err := s.DB.ExecContext(ctx, query,
		b.ID,
		string(b.Type),
		b.ItemID,
		nullString(b.UserID),
		b.CheckIn,
		b.CheckOut,
		b.Date,
		b.NumberOfGuests,
		b.Name,
		b.Phone,
		b.Email,
		b.PaymentMethod,
		b.Price,
		b.ServiceFee,
		b.TotalAmount,
		string(b.Status),
		b.RefundRequested,
		b.RefundRequestedAt,
		b.TransactionID,
		b.CreatedAt,
	)
	if err != nil {
		if mapped := mapConstraintError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

func (s *Storage) HasConflict(ctx context.Context, itemID string, checkIn, checkOut time.Time) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE item_id = $1 AND type = 'place' AND status = 'confirmed'
			AND check_in < $3 AND check_out > $2
		)`

	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, itemID, checkIn, checkOut).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check availability: %w", err)
	}

	return exists, nil
}

const bookingColumns = `
	id, type, item_id, user_id, check_in, check_out, date,
	number_of_guests, name, phone, email, payment_method,
	price, service_fee, total_amount, status,
	refund_requested, refund_requested_at, transaction_id, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanBooking(row scanner) (*models.Booking, error) {
	var (
		b                                   models.Booking
		typ, status                         string
		userID                              sql.NullString
		checkIn, checkOut, date, refundedAt sql.NullTime
	)

	err := row.Scan(
		&b.ID,
		&typ,
		&b.ItemID,
		&userID,
		&checkIn,
		&checkOut,
		&date,
		&b.NumberOfGuests,
		&b.Name,
		&b.Phone,
		&b.Email,
		&b.PaymentMethod,
		&b.Price,
		&b.ServiceFee,
		&b.TotalAmount,
		&status,
		&b.RefundRequested,
		&refundedAt,
		&b.TransactionID,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Type = models.ItemType(typ)
	b.Status = models.Status(status)
	b.UserID = userID.String
	b.CheckIn = timePtr(checkIn)
	b.CheckOut = timePtr(checkOut)
	b.Date = timePtr(date)
	b.RefundRequestedAt = timePtr(refundedAt)

	return &b, nil
}

func (s *Storage) Booking(ctx context.Context, id string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return b, nil
}

func (s *Storage) BookingByTransaction(ctx context.Context, transactionID string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE transaction_id = $1`

	b, err := scanBooking(s.DB.QueryRowContext(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking by transaction: %w", err)
	}

	return b, nil
}

func (s *Storage) BookingsByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bookings: %w", err)
	}

	return bookings, nil
}

// ConfirmBooking moves a pending booking to confirmed. The exclusion
// constraint re-checks availability as part of the same statement.
func (s *Storage) ConfirmBooking(ctx context.Context, id, transactionID string) error {
	query := `
		UPDATE bookings
		SET status = 'confirmed', transaction_id = $2
		WHERE id = $1 AND status = 'pending'`

	return s.conditionalUpdate(ctx, "failed to confirm booking", query, id, transactionID)
}

func (s *Storage) CancelBooking(ctx context.Context, id string) error {
	query := `
		UPDATE bookings
		SET status = 'canceled'
		WHERE id = $1 AND status <> 'canceled'`

	return s.conditionalUpdate(ctx, "failed to cancel booking", query, id)
}

func (s *Storage) MarkRefundRequested(ctx context.Context, id string, at time.Time) error {
	query := `
		UPDATE bookings
		SET refund_requested = TRUE, refund_requested_at = $2
		WHERE id = $1 AND status = 'canceled' AND refund_requested = FALSE`

	return s.conditionalUpdate(ctx, "failed to request refund", query, id, at)
}

func (s *Storage) conditionalUpdate(ctx context.Context, msg, query string, args ...any) error {
	result, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		if mapped := mapConstraintError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("%s: %w", msg, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", msg, err)
	}
	if rowsAffected > 0 {
		return nil
	}

	var exists bool
	err = s.DB.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id = $1)`, args[0]).Scan(&exists)
	if err != nil {
		return fmt.Errorf("%s: %w", msg, err)
	}
	if !exists {
		return storage.ErrBookingNotFound
	}

	return storage.ErrStatusChanged
}

func mapConstraintError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}

	switch {
	case pqErr.Code == codeExclusionViolation && pqErr.Constraint == constraintNoOverlap:
		return storage.ErrDateConflict
	case pqErr.Code == codeUniqueViolation && pqErr.Constraint == constraintTransactionID:
		return storage.ErrTransactionExists
	}

	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
