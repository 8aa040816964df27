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

// DefaultFrankfurterURL is the public Frankfurter API, serving the European
// Central Bank reference rates.
const DefaultFrankfurterURL = "https://api.frankfurter.app"

// Frankfurter retrieves historical fiat exchange rates.
type Frankfurter struct {
	client
}

// NewFrankfurter returns a Frankfurter client.
func NewFrankfurter(opts ...ClientOption) *Frankfurter {
	return &Frankfurter{client: newClient(DefaultFrankfurterURL, opts)}
}

/*
	{
	    "amount": 1.0,
	    "base": "USD",
	    "date": "2021-08-26",
	    "rates": {"EUR": 0.84983}
	}
*/

// Rate returns how many 'to' are worth one 'from' on day 'on'.
//
// The service answers with the latest rate published on or before the day
// asked: a different date in the response means there was no fixing that day
// (week-end or bank holiday), which is reported as unavailable.
func (f *Frankfurter) Rate(ctx context.Context, on date.Date, from, to string) (decimal.Decimal, error) {
	q := url.Values{"from": {from}, "to": {to}}
	addr := fmt.Sprintf("%s/%s?%s", f.baseURL, on, q.Encode())

	var jobj any
	if err := f.jwget(ctx, addr, &jobj); err != nil {
		var herr *httpError
		if errors.As(err, &herr) && herr.Status == http.StatusNotFound {
			return decimal.Zero, networth.Unavailable("no %s/%s rate on %s: %v", from, to, on, err)
		}
		return decimal.Zero, fmt.Errorf("error in wget %s/%s: %w", from, to, err)
	}

	jday, err := jsonpath.Get("$.date", jobj)
	if err != nil {
		return decimal.Zero, fmt.Errorf("error parsing %s/%s: %q %w", from, to, "$.date", err)
	}
	if s, _ := jday.(string); s != on.String() {
		return decimal.Zero, networth.Unavailable("no %s/%s fixing on %s, latest is %v", from, to, on, jday)
	}

	path := "$.rates." + to
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return decimal.Zero, networth.Unavailable("no %s/%s rate on %s: %v", from, to, on, err)
	}
	val, ok := jval.(float64)
	if !ok || val <= 0 {
		return decimal.Zero, fmt.Errorf("error parsing %s/%s: %q %s %v", from, to, path, "not a positive float", jval)
	}
	f.log.Debug().Str("from", from).Str("to", to).Stringer("on", on).Float64("rate", val).Msg("frankfurter rate")
	return decimal.NewFromFloat(val), nil
}
