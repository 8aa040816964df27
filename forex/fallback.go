package forex

import (
	"context"
	"errors"

	"github.com/etnz/networth"
	"github.com/etnz/networth/date"
	"github.com/shopspring/decimal"
)

type fallback []networth.RateProvider

// Fallback returns a provider asking each of 'providers' in turn, until one
// has the rate. Only unavailability moves to the next provider, other errors
// are returned as is.
func Fallback(providers ...networth.RateProvider) networth.RateProvider {
	return fallback(providers)
}

func (f fallback) Rate(ctx context.Context, on date.Date, from, to string) (decimal.Decimal, error) {
	var errs error
	for _, p := range f {
		r, err := p.Rate(ctx, on, from, to)
		if err == nil {
			return r, nil
		}
		if !errors.Is(err, networth.ErrRateUnavailable) {
			return decimal.Zero, err
		}
		errs = errors.Join(errs, err)
	}
	if errs == nil {
		return decimal.Zero, networth.Unavailable("no rate provider")
	}
	return decimal.Zero, errs
}
