package cancelBooking

import (
	"context"
	"log/slog"
	"net/http"

	"domio/internal/booking"
	"domio/internal/http-server/handlers/booking/bookingapi"
	"domio/internal/lib/api/response"
	"domio/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type Response struct {
	response.Response
	Booking *models.Booking `json:"booking,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingCanceler
type BookingCanceler interface {
	Cancel(ctx context.Context, requester booking.Requester, bookingID string) (*models.Booking, error)
}

func New(log *slog.Logger, canceler BookingCanceler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.cancelBooking.New"

		log := log.With(slog.String("op", op))

		bookingID := chi.URLParam(r, "id")
		if bookingID == "" {
			log.Info("booking id is required")
			bookingapi.BadRequest(w, r, "booking id is required")
			return
		}

		log = log.With(slog.String("booking_id", bookingID))

		b, err := canceler.Cancel(r.Context(), bookingapi.Requester(r), bookingID)
		if err != nil {
			bookingapi.Log(r.Context(), log, "booking not canceled", err)
			bookingapi.Error(w, r, err, "failed to cancel booking")
			return
		}

		log.Info("booking canceled")

		render.JSON(w, r, Response{
			Response: response.OK(),
			Booking:  b,
		})
	}
}
