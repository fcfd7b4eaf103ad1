package identity

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"domio/internal/lib/api/response"
	"domio/internal/lib/logger/sl"

	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v4"
)

type ctxKey struct{}

// New attaches the token subject as the user id when the request carries a
// valid bearer token. Requests without an Authorization header pass through
// as guests; a malformed or invalid token is rejected with 401.
// With an empty secret every bearer token is rejected, since an HMAC key of
// zero length can be used by anyone to sign.
func New(log *slog.Logger, secret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		log := log.With(slog.String("component", "middleware/identity"))

		key := []byte(secret)
		if len(key) == 0 {
			log.Warn("jwt secret is empty, bearer tokens will be rejected")
		}

		fn := func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				unauthorized(w, r)
				return
			}

			if len(key) == 0 {
				unauthorized(w, r)
				return
			}

			userID, err := parse(strings.TrimSpace(token), key)
			if err != nil {
				log.Warn("invalid token", sl.Err(err))
				unauthorized(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		}

		return http.HandlerFunc(fn)
	}
}

func parse(token string, key []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}

	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return "", err
	}
	if !tkn.Valid {
		return "", jwt.ErrTokenUnverifiable
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}

	return claims.Subject, nil
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, response.Error("invalid authorization token"))
}

// UserID returns the authenticated user id, or "" for guests.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// Token signs a subject-only token. Used by tests and local tooling.
func Token(secret, userID string) (string, error) {
	claims := jwt.RegisteredClaims{Subject: userID}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
