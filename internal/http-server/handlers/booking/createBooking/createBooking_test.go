package createBooking

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"domio/internal/booking"
	"domio/internal/http-server/handlers/booking/createBooking/mocks"
	"domio/internal/http-server/middleware/identity"
	"domio/internal/lib/logger/handlers/slogdiscard"
	"domio/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func jan(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func placeRequest() booking.CreateRequest {
	return booking.CreateRequest{
		Type:           models.ItemPlace,
		ItemID:         "p1",
		NumberOfGuests: 2,
		Name:           "Ann",
		Phone:          "555-0100",
		PaymentMethod:  "card",
		Stay:           &booking.Stay{CheckIn: jan(10), CheckOut: jan(13)},
	}
}

func kindErr(kind error, msg string) error {
	return &booking.Error{Kind: kind, Msg: msg}
}

const placeBody = `{"type":"place","itemId":"p1","checkIn":"2024-01-10","checkOut":"2024-01-13",
	"numberOfGuests":2,"name":"Ann","phone":"555-0100","paymentMethod":"card"}`

func TestCreateBookingHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	created := &models.Booking{
		ID:          "b-1",
		Type:        models.ItemPlace,
		ItemID:      "p1",
		Price:       3000,
		ServiceFee:  150,
		TotalAmount: 3150,
		Status:      models.StatusConfirmed,
	}

	testCases := []struct {
		name           string
		requestBody    string
		mockSetup      func(m *mocks.BookingCreator)
		expectedStatus int
		expectedBody   string
		checkBody      func(t *testing.T, body string)
	}{
		{
			name:        "Success",
			requestBody: placeBody,
			mockSetup: func(m *mocks.BookingCreator) {
				m.On("Create", mock.Anything, booking.Guest(), placeRequest()).Return(created, nil)
			},
			expectedStatus: http.StatusCreated,
			checkBody: func(t *testing.T, body string) {
				var resp Response
				require.NoError(t, json.Unmarshal([]byte(body), &resp))
				assert.True(t, resp.Success)
				assert.Equal(t, "b-1", resp.BookingID)
				require.NotNil(t, resp.Booking)
				assert.Equal(t, 3150.0, resp.Booking.TotalAmount)
			},
		},
		{
			name: "Experience with RFC 3339 date",
			requestBody: `{"type":"experience","itemId":"e1","date":"2024-02-01T10:00:00Z",
				"numberOfGuests":4,"name":"Ann","phone":"555-0100","paymentMethod":"card","email":"ann@example.com"}`,
			mockSetup: func(m *mocks.BookingCreator) {
				m.On("Create", mock.Anything, booking.Guest(), mock.MatchedBy(func(req booking.CreateRequest) bool {
					return req.Type == models.ItemExperience &&
						req.Stay == nil &&
						req.Date != nil &&
						req.Date.Equal(time.Date(2024, time.February, 1, 10, 0, 0, 0, time.UTC)) &&
						req.Email == "ann@example.com"
				})).Return(&models.Booking{ID: "b-2"}, nil)
			},
			expectedStatus: http.StatusCreated,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"bookingId":"b-2"`)
			},
		},
		{
			name:           "Invalid JSON",
			requestBody:    `invalid json`,
			mockSetup:      func(m *mocks.BookingCreator) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":"failed to decode request"}`,
		},
		{
			name:           "Missing fields",
			requestBody:    `{"type":"place","itemId":"p1","checkIn":"2024-01-10","checkOut":"2024-01-13","numberOfGuests":2}`,
			mockSetup:      func(m *mocks.BookingCreator) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody: `{"success":false,"error":"field Name is a required field, ` +
				`field Phone is a required field, field PaymentMethod is a required field"}`,
		},
		{
			name:           "Invalid type",
			requestBody:    `{"type":"castle","itemId":"p1","numberOfGuests":2,"name":"Ann","phone":"1","paymentMethod":"card"}`,
			mockSetup:      func(m *mocks.BookingCreator) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":"field Type must be one of [place experience service]"}`,
		},
		{
			name:           "Place without dates",
			requestBody:    `{"type":"place","itemId":"p1","numberOfGuests":2,"name":"Ann","phone":"1","paymentMethod":"card"}`,
			mockSetup:      func(m *mocks.BookingCreator) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody: `{"success":false,"error":"field CheckIn is a required field, ` +
				`field CheckOut is a required field"}`,
		},
		{
			name:           "Service without date",
			requestBody:    `{"type":"service","itemId":"s1","numberOfGuests":1,"name":"Ann","phone":"1","paymentMethod":"card"}`,
			mockSetup:      func(m *mocks.BookingCreator) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":"field Date is a required field"}`,
		},
		{
			name:           "Zero guests",
			requestBody:    `{"type":"service","itemId":"s1","date":"2024-01-10","numberOfGuests":0,"name":"Ann","phone":"1","paymentMethod":"card"}`,
			mockSetup:      func(m *mocks.BookingCreator) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":"field NumberOfGuests must be at least 1"}`,
		},
		{
			name:           "Unparseable date",
			requestBody:    `{"type":"service","itemId":"s1","date":"tomorrow","numberOfGuests":1,"name":"Ann","phone":"1","paymentMethod":"card"}`,
			mockSetup:      func(m *mocks.BookingCreator) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":"invalid date \"tomorrow\", expected YYYY-MM-DD or RFC 3339"}`,
		},
		{
			name:        "Checkout before checkin",
			requestBody: strings.Replace(placeBody, "2024-01-13", "2024-01-09", 1),
			mockSetup: func(m *mocks.BookingCreator) {
				m.On("Create", mock.Anything, booking.Guest(), mock.Anything).
					Return(nil, kindErr(booking.ErrValidation, "checkOut must be after checkIn"))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"success":false,"error":"checkOut must be after checkIn"}`,
		},
		{
			name:        "Item not found",
			requestBody: placeBody,
			mockSetup: func(m *mocks.BookingCreator) {
				m.On("Create", mock.Anything, booking.Guest(), placeRequest()).
					Return(nil, kindErr(booking.ErrNotFound, "place not found"))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"success":false,"error":"place not found"}`,
		},
		{
			name:        "Dates taken",
			requestBody: placeBody,
			mockSetup: func(m *mocks.BookingCreator) {
				m.On("Create", mock.Anything, booking.Guest(), placeRequest()).
					Return(nil, kindErr(booking.ErrConflict, "place is already booked for these dates"))
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `{"success":false,"error":"place is already booked for these dates"}`,
		},
		{
			name:        "Internal server error",
			requestBody: placeBody,
			mockSetup: func(m *mocks.BookingCreator) {
				m.On("Create", mock.Anything, booking.Guest(), placeRequest()).
					Return(nil, errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"success":false,"error":"failed to create booking"}`,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockCreator := mocks.NewBookingCreator(t)
			tc.mockSetup(mockCreator)

			handler := New(logger, mockCreator)

			req, err := http.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString(tc.requestBody))
			require.NoError(t, err)

			router := chi.NewRouter()
			router.Post("/bookings", handler)

			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")

			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "Response body mismatch")
			} else if tc.checkBody != nil {
				tc.checkBody(t, rr.Body.String())
			}
		})
	}
}

func TestCreateBookingPassesIdentity(t *testing.T) {
	t.Parallel()

	mockCreator := mocks.NewBookingCreator(t)
	mockCreator.On("Create", mock.Anything, booking.User("u1"), placeRequest()).
		Return(&models.Booking{ID: "b-1", UserID: "u1"}, nil)

	handler := New(slogdiscard.NewDiscardLogger(), mockCreator)

	req, err := http.NewRequest(http.MethodPost, "/bookings", bytes.NewBufferString(placeBody))
	require.NoError(t, err)
	req = req.WithContext(identity.WithUserID(req.Context(), "u1"))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, rr.Body.String(), `"user":"u1"`)
}

func TestResponseOK(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rr := httptest.NewRecorder()

	responseOK(rr, req, &models.Booking{ID: "b-9"})

	assert.Equal(t, http.StatusCreated, rr.Code)

	var actual Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &actual))

	assert.True(t, actual.Success)
	assert.Empty(t, actual.Error)
	assert.Equal(t, "b-9", actual.BookingID)
}
