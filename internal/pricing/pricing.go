package pricing

import (
	"math"
	"time"

	"domio/internal/config"
	"domio/internal/models"
)

const (
	DefaultMinimumFee = 50
	DefaultFeeRate    = 0.05
)

// Engine derives booking amounts from an item's base price.
type Engine struct {
	MinimumFee float64
	FeeRate    float64
}

// New takes the fee parameters as configured. Zero is a valid fee, only a
// negative value falls back to the default.
func New(cfg config.Pricing) *Engine {
	e := &Engine{
		MinimumFee: cfg.MinimumFee,
		FeeRate:    cfg.FeeRate,
	}
	if e.MinimumFee < 0 {
		e.MinimumFee = DefaultMinimumFee
	}
	if e.FeeRate < 0 {
		e.FeeRate = DefaultFeeRate
	}
	return e
}

type Input struct {
	Type     models.ItemType
	Base     float64
	Guests   int
	CheckIn  time.Time
	CheckOut time.Time
}

type Quote struct {
	Nights      int     `json:"nights,omitempty"`
	Price       float64 `json:"price"`
	ServiceFee  float64 `json:"serviceFee"`
	TotalAmount float64 `json:"totalAmount"`
}

// Compute expects validated input: CheckOut after CheckIn for places and a
// positive guest count otherwise.
func (e *Engine) Compute(in Input) Quote {
	var q Quote

	switch in.Type {
	case models.ItemPlace:
		q.Nights = Nights(in.CheckIn, in.CheckOut)
		q.Price = round2(in.Base * float64(q.Nights))
	default:
		q.Price = round2(in.Base * float64(in.Guests))
	}

	q.ServiceFee = math.Max(e.MinimumFee, round2(q.Price*e.FeeRate))
	q.TotalAmount = round2(q.Price + q.ServiceFee)

	return q
}

// Nights counts started days between checkIn and checkOut.
func Nights(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
