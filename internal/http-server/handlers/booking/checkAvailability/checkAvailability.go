package checkAvailability

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"domio/internal/http-server/handlers/booking/bookingapi"
	"domio/internal/lib/api/response"

	"github.com/go-chi/render"
)

type Response struct {
	response.Response
	Available bool `json:"available"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=AvailabilityChecker
type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, placeID string, checkIn, checkOut time.Time) (bool, error)
}

func New(log *slog.Logger, checker AvailabilityChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.checkAvailability.New"

		log := log.With(slog.String("op", op))

		q := r.URL.Query()
		placeID := q.Get("placeId")
		if placeID == "" {
			bookingapi.BadRequest(w, r, "placeId is required")
			return
		}
		if q.Get("checkIn") == "" || q.Get("checkOut") == "" {
			bookingapi.BadRequest(w, r, "checkIn and checkOut are required")
			return
		}

		checkIn, err := bookingapi.ParseDate(q.Get("checkIn"))
		if err != nil {
			bookingapi.BadRequest(w, r, err.Error())
			return
		}
		checkOut, err := bookingapi.ParseDate(q.Get("checkOut"))
		if err != nil {
			bookingapi.BadRequest(w, r, err.Error())
			return
		}

		available, err := checker.CheckAvailability(r.Context(), placeID, checkIn, checkOut)
		if err != nil {
			bookingapi.Log(r.Context(), log, "failed to check availability", err, slog.String("place_id", placeID))
			bookingapi.Error(w, r, err, "failed to check availability")
			return
		}

		render.JSON(w, r, Response{
			Response:  response.OK(),
			Available: available,
		})
	}
}
