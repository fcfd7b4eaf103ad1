package payment

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"domio/internal/lib/random"
	"domio/internal/models"
)

const DefaultSuccessRate = 0.8

var ErrDeclined = errors.New("payment declined")

// Simulator stands in for a payment gateway. Each charge succeeds with
// probability SuccessRate.
type Simulator struct {
	SuccessRate float64

	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

// NewSimulator falls back to DefaultSuccessRate when the rate is outside
// [0, 1]. A rate of 0 declines every charge.
func NewSimulator(successRate float64) *Simulator {
	if successRate < 0 || successRate > 1 {
		successRate = DefaultSuccessRate
	}
	return &Simulator{
		SuccessRate: successRate,
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
		now:         time.Now,
	}
}

// NewSeededSimulator returns a simulator with a deterministic outcome
// sequence.
func NewSeededSimulator(successRate float64, seed int64) *Simulator {
	s := NewSimulator(successRate)
	s.rnd = rand.New(rand.NewSource(seed))
	return s
}

func (s *Simulator) Charge(ctx context.Context, _ *models.Booking) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	roll := s.rnd.Float64()
	s.mu.Unlock()

	if roll >= s.SuccessRate {
		return "", ErrDeclined
	}

	return random.TransactionID(s.now()), nil
}
