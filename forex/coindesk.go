package forex

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/networth"
	"github.com/etnz/networth/date"
	"github.com/shopspring/decimal"
)

// DefaultCoinDeskURL is the CoinDesk bitcoin price index history endpoint.
const DefaultCoinDeskURL = "https://api.coindesk.com/v1/bpi/historical/close.json"

// CoinDesk retrieves historical bitcoin close prices.
type CoinDesk struct {
	client
}

// NewCoinDesk returns a CoinDesk client.
func NewCoinDesk(opts ...ClientOption) *CoinDesk {
	return &CoinDesk{client: newClient(DefaultCoinDeskURL, opts)}
}

/*
	{
	    "bpi": {"2021-08-26": 39848.2899},
	    "disclaimer": "...",
	    "time": {"updated": "Aug 27, 2021 00:03:00 UTC"}
	}
*/

// Price returns the close price of one bitcoin in 'currency' on day 'on'.
func (c *CoinDesk) Price(ctx context.Context, on date.Date, currency string) (decimal.Decimal, error) {
	q := url.Values{"start": {on.String()}, "end": {on.String()}, "currency": {currency}}
	addr := c.baseURL + "?" + q.Encode()

	var jobj any
	if err := c.jwget(ctx, addr, &jobj); err != nil {
		var herr *httpError
		if errors.As(err, &herr) && herr.Status == http.StatusNotFound {
			return decimal.Zero, networth.Unavailable("no BTC/%s price on %s: %v", currency, on, err)
		}
		return decimal.Zero, fmt.Errorf("error in wget BTC/%s: %w", currency, err)
	}

	jval, err := jsonpath.Get("$.bpi", jobj)
	if err != nil {
		return decimal.Zero, fmt.Errorf("error parsing BTC/%s: %q %w", currency, "$.bpi", err)
	}
	bpi, ok := jval.(map[string]any)
	if !ok {
		return decimal.Zero, fmt.Errorf("error parsing BTC/%s: %q %s %v", currency, "$.bpi", "not an object", jval)
	}
	price, ok := bpi[on.String()].(float64)
	if !ok || price <= 0 {
		return decimal.Zero, networth.Unavailable("no BTC/%s close price on %s", currency, on)
	}
	c.log.Debug().Str("currency", currency).Stringer("on", on).Float64("price", price).Msg("coindesk price")
	return decimal.NewFromFloat(price), nil
}
