// Package bookingapi holds the pieces shared by the booking handlers:
// error-to-status mapping, date parsing and requester extraction.
package bookingapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"domio/internal/booking"
	"domio/internal/http-server/middleware/identity"
	"domio/internal/lib/api/response"
	"domio/internal/lib/logger/sl"

	"github.com/go-chi/render"
)

const dateLayout = "2006-01-02"

// Status maps a booking error kind to an HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, booking.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, booking.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, booking.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, booking.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, booking.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, booking.ErrPaymentDeclined):
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}

// Error renders err in the response envelope. Errors outside the booking
// taxonomy are reported with fallback so internals do not leak.
func Error(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	render.Status(r, Status(err))
	render.JSON(w, r, response.Error(booking.Message(err, fallback)))
}

// Log records a failed operation. Errors that map to 500 are logged at
// Error level, rejections the caller can act on at Info.
func Log(ctx context.Context, log *slog.Logger, msg string, err error, attrs ...any) {
	level := slog.LevelInfo
	if Status(err) == http.StatusInternalServerError {
		level = slog.LevelError
	}
	log.Log(ctx, level, msg, append(attrs, sl.Err(err))...)
}

// BadRequest renders a 400 with msg.
func BadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, response.Error(msg))
}

// ParseDate accepts a calendar date (2006-01-02) or a full RFC 3339
// timestamp. Calendar dates are read as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}

// Requester returns the identity attached by the identity middleware, or a
// guest when there is none.
func Requester(r *http.Request) booking.Requester {
	return booking.User(identity.UserID(r.Context()))
}
