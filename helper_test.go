package networth

import (
	"context"
	"fmt"

	"github.com/etnz/networth/date"
	"github.com/shopspring/decimal"
)

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// NO is a helper for test to create money from const with no currency set
func NO(v float64) Money { return M(v, "") }

// testToday is the day tests run on.
var testToday = date.New(2025, 6, 15)

func testClock() date.Date { return testToday }

// staticRates is a RateProvider serving a constant rate per pair, counting calls.
type staticRates struct {
	rates map[string]float64 // "FROM/TO" -> rate
	calls int
}

func (s *staticRates) Rate(_ context.Context, on date.Date, from, to string) (decimal.Decimal, error) {
	s.calls++
	r, ok := s.rates[from+"/"+to]
	if !ok {
		return decimal.Zero, Unavailable("no rate for %s/%s on %s", from, to, on)
	}
	return decimal.NewFromFloat(r), nil
}

// newTestPortfolio returns an EUR portfolio living on testToday.
func newTestPortfolio(opts ...Option) *Portfolio {
	return NewPortfolio("Test", "", "EUR", append([]Option{WithClock(testClock)}, opts...)...)
}

func mustAdd(p *Portfolio, category, subcategory, currency, name string) *Holding {
	h, err := p.AddHolding(category, subcategory, currency, name, "")
	if err != nil {
		panic(fmt.Sprintf("AddHolding(%q) error = %v", name, err))
	}
	return h
}

func mustPurchase(h *Holding, on string, units float64, price, fees Money) {
	if err := h.Purchase(date.MustParse(on), Q(units), price, fees); err != nil {
		panic(fmt.Sprintf("Purchase(%s) error = %v", on, err))
	}
}
