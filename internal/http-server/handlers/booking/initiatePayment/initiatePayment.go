package initiatePayment

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"domio/internal/http-server/handlers/booking/bookingapi"
	"domio/internal/lib/api/response"
	"domio/internal/lib/logger/sl"
	"domio/internal/models"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	BookingID string `json:"bookingId" validate:"required"`
}

type Response struct {
	response.Response
	TransactionID string        `json:"transactionId,omitempty"`
	Status        models.Status `json:"status,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=PaymentInitiator
type PaymentInitiator interface {
	InitiatePayment(ctx context.Context, bookingID string) (*models.Booking, error)
}

func New(log *slog.Logger, payments PaymentInitiator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.initiatePayment.New"

		log := log.With(slog.String("op", op))

		var req Request

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			bookingapi.BadRequest(w, r, "failed to decode request")
			return
		}

		if err = validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			if errors.As(err, &validateErr) {
				log.Info("invalid request", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ValidationError(validateErr))
				return
			}
		}

		log = log.With(slog.String("booking_id", req.BookingID))

		b, err := payments.InitiatePayment(r.Context(), req.BookingID)
		if err != nil {
			bookingapi.Log(r.Context(), log, "payment not completed", err)
			bookingapi.Error(w, r, err, "failed to process payment")
			return
		}

		log.Info("payment completed", slog.String("transaction_id", b.TransactionID))

		responseOK(w, r, b)
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, b *models.Booking) {
	render.JSON(w, r, Response{
		Response:      response.OK(),
		TransactionID: b.TransactionID,
		Status:        b.Status,
	})
}
