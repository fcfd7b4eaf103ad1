package getByTransaction

import (
	"context"
	"log/slog"
	"net/http"

	"domio/internal/http-server/handlers/booking/bookingapi"
	"domio/internal/lib/api/response"
	"domio/internal/models"

	"github.com/go-chi/render"
)

type Response struct {
	response.Response
	Booking *models.BookingView `json:"booking,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=TransactionLookup
type TransactionLookup interface {
	GetByTransaction(ctx context.Context, transactionID string) (*models.Booking, error)
}

// New serves the public receipt lookup. Anyone holding the transaction token
// may read it, so only the sanitized view is returned.
func New(log *slog.Logger, lookup TransactionLookup) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.getByTransaction.New"

		log := log.With(slog.String("op", op))

		transactionID := r.URL.Query().Get("transactionId")
		if transactionID == "" {
			log.Info("transaction id is required")
			bookingapi.BadRequest(w, r, "transactionId is required")
			return
		}

		b, err := lookup.GetByTransaction(r.Context(), transactionID)
		if err != nil {
			bookingapi.Log(r.Context(), log, "failed to look up booking", err, slog.String("transaction_id", transactionID))
			bookingapi.Error(w, r, err, "failed to get booking")
			return
		}

		view := b.View()

		render.JSON(w, r, Response{
			Response: response.OK(),
			Booking:  &view,
		})
	}
}
