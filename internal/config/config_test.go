package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
env: "dev"
storage: "memory"
http_server:
  address: "0.0.0.0:9000"
  timeout: 2s
pricing:
  minimum_fee: 25
booking:
  require_payment: true
auth:
  jwt_secret: "s3cret"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "memory", cfg.Storage)
	assert.Equal(t, "0.0.0.0:9000", cfg.HTTPServer.Address)
	assert.Equal(t, 2*time.Second, cfg.HTTPServer.Timeout)
	assert.Equal(t, 60*time.Second, cfg.HTTPServer.IdleTimeout)
	assert.Equal(t, 25.0, cfg.Pricing.MinimumFee)
	assert.Equal(t, 0.05, cfg.Pricing.FeeRate)
	assert.True(t, cfg.Booking.RequirePayment)
	assert.Equal(t, 0.8, cfg.Booking.PaymentSuccessRate)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 10.0, cfg.HTTPServer.RateLimit)
	assert.Equal(t, 20, cfg.HTTPServer.RateBurst)
	assert.False(t, cfg.HTTPServer.TrustProxy)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}

func TestLoadKeepsZeroValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
http_server:
  rate_limit: 0
pricing:
  minimum_fee: 0
  fee_rate: 0
booking:
  payment_success_rate: 0
auth:
  jwt_secret: "s3cret"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Zero(t, cfg.HTTPServer.RateLimit)
	assert.Equal(t, 20, cfg.HTTPServer.RateBurst)
	assert.Zero(t, cfg.Pricing.MinimumFee)
	assert.Zero(t, cfg.Pricing.FeeRate)
	assert.Zero(t, cfg.Booking.PaymentSuccessRate)
}

func TestLoadRequiresSecret(t *testing.T) {
	if _, ok := os.LookupEnv("JWT_SECRET"); ok {
		t.Skip("JWT_SECRET is set in the environment")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("env: \"dev\"\n"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
