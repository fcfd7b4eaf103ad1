package createBooking

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"domio/internal/booking"
	"domio/internal/http-server/handlers/booking/bookingapi"
	"domio/internal/lib/api/response"
	"domio/internal/lib/logger/sl"
	"domio/internal/models"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type Request struct {
	Type           string `json:"type" validate:"required,oneof=place experience service"`
	ItemID         string `json:"itemId" validate:"required"`
	CheckIn        string `json:"checkIn,omitempty" validate:"required_if=Type place"`
	CheckOut       string `json:"checkOut,omitempty" validate:"required_if=Type place"`
	Date           string `json:"date,omitempty" validate:"required_if=Type experience,required_if=Type service"`
	NumberOfGuests int    `json:"numberOfGuests" validate:"gte=1"`
	Name           string `json:"name" validate:"required"`
	Phone          string `json:"phone" validate:"required"`
	Email          string `json:"email,omitempty" validate:"omitempty,email"`
	PaymentMethod  string `json:"paymentMethod" validate:"required"`
	TransactionID  string `json:"transactionId,omitempty"`
}

type Response struct {
	response.Response
	BookingID string          `json:"bookingId,omitempty"`
	Booking   *models.Booking `json:"booking,omitempty"`
}

//go:generate go run github.com/vektra/mockery/v2@v2.51.1 --name=BookingCreator
type BookingCreator interface {
	Create(ctx context.Context, requester booking.Requester, req booking.CreateRequest) (*models.Booking, error)
}

func New(log *slog.Logger, creator BookingCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.booking.createBooking.New"

		log := log.With(slog.String("op", op))

		var req Request

		err := render.DecodeJSON(r.Body, &req)
		if err != nil {
			log.Error("failed to decode request body", sl.Err(err))
			bookingapi.BadRequest(w, r, "failed to decode request")
			return
		}

		log.Debug("request body decoded", slog.String("type", req.Type), slog.String("item_id", req.ItemID))

		if err = validator.New().Struct(req); err != nil {
			var validateErr validator.ValidationErrors
			if errors.As(err, &validateErr) {
				log.Info("invalid request", sl.Err(err))
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.ValidationError(validateErr))
				return
			}
		}

		in, err := req.toCreateRequest()
		if err != nil {
			log.Info("invalid dates", sl.Err(err))
			bookingapi.BadRequest(w, r, err.Error())
			return
		}

		b, err := creator.Create(r.Context(), bookingapi.Requester(r), in)
		if err != nil {
			bookingapi.Log(r.Context(), log, "booking not created", err)
			bookingapi.Error(w, r, err, "failed to create booking")
			return
		}

		log.Info("booking created", slog.String("booking_id", b.ID))

		responseOK(w, r, b)
	}
}

func (req Request) toCreateRequest() (booking.CreateRequest, error) {
	in := booking.CreateRequest{
		Type:           models.ItemType(req.Type),
		ItemID:         req.ItemID,
		NumberOfGuests: req.NumberOfGuests,
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		PaymentMethod:  req.PaymentMethod,
		TransactionID:  req.TransactionID,
	}

	if req.CheckIn != "" || req.CheckOut != "" {
		var stay booking.Stay
		var err error
		if req.CheckIn != "" {
			if stay.CheckIn, err = bookingapi.ParseDate(req.CheckIn); err != nil {
				return in, err
			}
		}
		if req.CheckOut != "" {
			if stay.CheckOut, err = bookingapi.ParseDate(req.CheckOut); err != nil {
				return in, err
			}
		}
		in.Stay = &stay
	}

	if req.Date != "" {
		date, err := bookingapi.ParseDate(req.Date)
		if err != nil {
			return in, err
		}
		in.Date = &date
	}

	return in, nil
}

func responseOK(w http.ResponseWriter, r *http.Request, b *models.Booking) {
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, Response{
		Response:  response.OK(),
		BookingID: b.ID,
		Booking:   b,
	})
}
