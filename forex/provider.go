// Package forex implements networth.RateProvider on top of public exchange
// rate services.
//
// Fiat rates come from Frankfurter, bitcoin prices from CoinDesk. Provider
// combines them and enforces the supported currencies; Table holds static
// rates for offline use.
package forex

import (
	"context"
	"slices"

	"github.com/etnz/networth"
	"github.com/etnz/networth/date"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CryptoSource returns the price of one unit of crypto currency in a fiat currency.
type CryptoSource interface {
	Price(ctx context.Context, on date.Date, currency string) (decimal.Decimal, error)
}

// Provider resolves rates between every supported currency.
type Provider struct {
	fiat   networth.RateProvider
	crypto CryptoSource
	today  func() date.Date
	log    zerolog.Logger
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithClock sets the function returning the current day.
func WithClock(today func() date.Date) ProviderOption {
	return func(p *Provider) { p.today = today }
}

// WithProviderLogger sets the logger.
func WithProviderLogger(l zerolog.Logger) ProviderOption {
	return func(p *Provider) { p.log = l }
}

// NewProvider returns a Provider using 'fiat' for fiat pairs and 'crypto' for
// pairs with one bitcoin leg.
func NewProvider(fiat networth.RateProvider, crypto CryptoSource, opts ...ProviderOption) *Provider {
	p := &Provider{fiat: fiat, crypto: crypto, today: date.Today, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Check reports why a rate from 'from' to 'to' on day 'on' cannot be resolved,
// without querying any service. It returns nil if the rate may be available.
func (p *Provider) Check(on date.Date, from, to string) error {
	if from == to {
		return nil
	}
	if today := p.today(); on.After(today) {
		return networth.Unavailable("%s is a date in the future", on)
	}
	var unsupported []string
	for _, cur := range []string{from, to} {
		if !networth.IsSupported(cur) && !slices.Contains(unsupported, cur) {
			unsupported = append(unsupported, cur)
		}
	}
	if len(unsupported) > 0 {
		return networth.Unavailable("%v currency not supported", unsupported)
	}
	return nil
}

// Rate implements networth.RateProvider.
func (p *Provider) Rate(ctx context.Context, on date.Date, from, to string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	if err := p.Check(on, from, to); err != nil {
		p.log.Warn().Str("from", from).Str("to", to).Stringer("on", on).Err(err).Msg("rate unavailable")
		return decimal.Zero, err
	}

	switch {
	case networth.IsFiat(from) && networth.IsFiat(to):
		return p.fiat.Rate(ctx, on, from, to)
	case networth.IsCrypto(from) && networth.IsFiat(to):
		return p.crypto.Price(ctx, on, to)
	case networth.IsFiat(from) && networth.IsCrypto(to):
		price, err := p.crypto.Price(ctx, on, from)
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromInt(1).Div(price), nil
	default:
		// two different crypto currencies.
		return decimal.Zero, networth.Unavailable("no rate between %s and %s", from, to)
	}
}
