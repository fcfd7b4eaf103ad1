package listBookings

import (
	"context"
	"log/slog"
	"net/http"

	"domio/internal/booking"
	"domio/internal/http-server/handlers/booking/bookingapi"
	"domio/internal/lib/api/response"
	"domio/internal/models"

	"github.com/go-chi/render"
)

type Response struct {
	response.Response
	Bookings []models.Booking `json:"bookings"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingLister
type BookingLister interface {
	ListForUser(ctx context.Context, requester booking.Requester) ([]models.Booking, error)
}

func New(log *slog.Logger, lister BookingLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.listBookings.New"

		log := log.With(slog.String("op", op))

		requester := bookingapi.Requester(r)

		bookings, err := lister.ListForUser(r.Context(), requester)
		if err != nil {
			bookingapi.Log(r.Context(), log, "failed to list bookings", err)
			bookingapi.Error(w, r, err, "failed to list bookings")
			return
		}

		if bookings == nil {
			bookings = []models.Booking{}
		}

		log.Debug("bookings listed", slog.String("user_id", requester.UserID), slog.Int("count", len(bookings)))

		render.JSON(w, r, Response{
			Response: response.OK(),
			Bookings: bookings,
		})
	}
}
