package getBooking

import (
	"context"
	"log/slog"
	"net/http"

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

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingGetter
type BookingGetter interface {
	Get(ctx context.Context, bookingID string) (*models.Booking, error)
}

func New(log *slog.Logger, getter BookingGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.getBooking.New"

		log := log.With(slog.String("op", op))

		bookingID := chi.URLParam(r, "id")
		if bookingID == "" {
			log.Info("booking id is required")
			bookingapi.BadRequest(w, r, "booking id is required")
			return
		}

		b, err := getter.Get(r.Context(), bookingID)
		if err != nil {
			bookingapi.Log(r.Context(), log, "failed to get booking", err, slog.String("booking_id", bookingID))
			bookingapi.Error(w, r, err, "failed to get booking")
			return
		}

		render.JSON(w, r, Response{
			Response: response.OK(),
			Booking:  b,
		})
	}
}
