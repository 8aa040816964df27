package networth

import (
	"context"
	"fmt"

	"github.com/etnz/networth/date"
	"github.com/shopspring/decimal"
)

// RateProvider resolves conversion rates.
//
// Rate returns how many 'to' units are worth one 'from' unit on day 'on'. It
// must return an error matching ErrRateUnavailable when the date is in the
// future, when a currency is not supported, or when the source has no data
// for that day. Implementations may block on I/O.
type RateProvider interface {
	Rate(ctx context.Context, on date.Date, from, to string) (decimal.Decimal, error)
}

// RateFunc adapts a function to the RateProvider interface.
type RateFunc func(ctx context.Context, on date.Date, from, to string) (decimal.Decimal, error)

func (f RateFunc) Rate(ctx context.Context, on date.Date, from, to string) (decimal.Decimal, error) {
	return f(ctx, on, from, to)
}

// Unavailable returns an error matching ErrRateUnavailable with the reason why.
func Unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRateUnavailable, fmt.Sprintf(format, args...))
}

// noRates is the provider used when none was configured: only trivial
// conversions succeed.
var noRates = RateFunc(func(_ context.Context, on date.Date, from, to string) (decimal.Decimal, error) {
	return decimal.Zero, Unavailable("no rate provider configured")
})

// convert converts 'm' into currency 'to' using the rate on day 'on'.
//
// Identical currencies never consult the provider.
func convert(ctx context.Context, rates RateProvider, on date.Date, m Money, to string) (Money, error) {
	if m.Currency() == to {
		return m, nil
	}
	rate, err := rates.Rate(ctx, on, m.Currency(), to)
	if err != nil {
		return Money{}, &RateError{On: on, From: m.Currency(), To: to, Err: err}
	}
	return m.Convert(rate, to), nil
}
