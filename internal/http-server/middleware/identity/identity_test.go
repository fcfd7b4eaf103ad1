package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"domio/internal/lib/logger/handlers/slogdiscard"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestIdentity(t *testing.T) {
	t.Parallel()

	valid, err := Token(secret, "user-1")
	require.NoError(t, err)

	otherKey, err := Token("other-secret", "user-1")
	require.NoError(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{}).SignedString([]byte(secret))
	require.NoError(t, err)

	testCases := []struct {
		name           string
		header         string
		expectedStatus int
		expectedUser   string
	}{
		{
			name:           "Guest",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Valid token",
			header:         "Bearer " + valid,
			expectedStatus: http.StatusOK,
			expectedUser:   "user-1",
		},
		{
			name:           "Wrong key",
			header:         "Bearer " + otherKey,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Expired",
			header:         "Bearer " + expired,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "No subject",
			header:         "Bearer " + noSubject,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Not a bearer token",
			header:         "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Empty bearer",
			header:         "Bearer ",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var seen string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = UserID(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			handler := New(slogdiscard.NewDiscardLogger(), secret)(next)

			req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Equal(t, tc.expectedUser, seen)
			if tc.expectedStatus == http.StatusUnauthorized {
				assert.JSONEq(t, `{"success":false,"error":"invalid authorization token"}`, rr.Body.String())
			}
		})
	}
}

func TestIdentityEmptySecret(t *testing.T) {
	t.Parallel()

	forged, err := Token("", "victim")
	require.NoError(t, err)

	var seen string
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		seen = UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := New(slogdiscard.NewDiscardLogger(), "")(next)

	req := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+forged)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, called)
	assert.Empty(t, seen)
	assert.JSONEq(t, `{"success":false,"error":"invalid authorization token"}`, rr.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/bookings", nil)
	rr = httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, called)
	assert.Empty(t, seen)
}
