package payment

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChargeAlwaysSucceeds(t *testing.T) {
	t.Parallel()

	s := NewSimulator(1)

	for i := 0; i < 50; i++ {
		txn, err := s.Charge(context.Background(), nil)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(txn, "TXN-"))
	}
}

func TestChargeSuccessRate(t *testing.T) {
	t.Parallel()

	s := NewSeededSimulator(0.8, 42)

	const runs = 5000
	var ok int
	for i := 0; i < runs; i++ {
		_, err := s.Charge(context.Background(), nil)
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(t, err, ErrDeclined)
	}

	assert.InDelta(t, 0.8, float64(ok)/runs, 0.03)
}

func TestNewSimulatorDefaultRate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultSuccessRate, NewSimulator(-0.1).SuccessRate)
	assert.Equal(t, DefaultSuccessRate, NewSimulator(1.5).SuccessRate)
	assert.Equal(t, 0.5, NewSimulator(0.5).SuccessRate)
	assert.Zero(t, NewSimulator(0).SuccessRate)
}

func TestChargeZeroRateAlwaysDeclines(t *testing.T) {
	t.Parallel()

	s := NewSeededSimulator(0, 7)

	for i := 0; i < 50; i++ {
		txn, err := s.Charge(context.Background(), nil)
		require.ErrorIs(t, err, ErrDeclined)
		assert.Empty(t, txn)
	}
}

func TestChargeCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSimulator(1).Charge(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
