package getBooking

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"domio/internal/booking"
	"domio/internal/http-server/handlers/booking/getBooking/mocks"
	"domio/internal/lib/logger/handlers/slogdiscard"
	"domio/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetBookingHandler(t *testing.T) {
	t.Parallel()

	logger := slogdiscard.NewDiscardLogger()

	testCases := []struct {
		name           string
		mockSetup      func(m *mocks.BookingGetter)
		expectedStatus int
		checkBody      func(t *testing.T, body string)
	}{
		{
			name: "Success",
			mockSetup: func(m *mocks.BookingGetter) {
				m.On("Get", mock.Anything, "b-1").Return(&models.Booking{
					ID:     "b-1",
					Phone:  "555-0100",
					Status: models.StatusConfirmed,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"success":true`)
				assert.Contains(t, body, `"id":"b-1"`)
				assert.Contains(t, body, `"phone":"555-0100"`)
			},
		},
		{
			name: "Not found",
			mockSetup: func(m *mocks.BookingGetter) {
				m.On("Get", mock.Anything, "b-1").
					Return(nil, &booking.Error{Kind: booking.ErrNotFound, Msg: "booking not found"})
			},
			expectedStatus: http.StatusNotFound,
			checkBody: func(t *testing.T, body string) {
				assert.JSONEq(t, `{"success":false,"error":"booking not found"}`, body)
			},
		},
		{
			name: "Internal server error",
			mockSetup: func(m *mocks.BookingGetter) {
				m.On("Get", mock.Anything, "b-1").Return(nil, errors.New("timeout"))
			},
			expectedStatus: http.StatusInternalServerError,
			checkBody: func(t *testing.T, body string) {
				assert.JSONEq(t, `{"success":false,"error":"failed to get booking"}`, body)
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			mockGetter := mocks.NewBookingGetter(t)
			tc.mockSetup(mockGetter)

			router := chi.NewRouter()
			router.Get("/bookings/{id}", New(logger, mockGetter))

			req, err := http.NewRequest(http.MethodGet, "/bookings/b-1", nil)
			require.NoError(t, err)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code, "Status code mismatch")
			tc.checkBody(t, rr.Body.String())
		})
	}
}

func TestHandlerWithoutChiContext(t *testing.T) {
	t.Parallel()

	handler := New(slogdiscard.NewDiscardLogger(), mocks.NewBookingGetter(t))

	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "booking id is required")
}
