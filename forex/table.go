package forex

import (
	"context"

	"github.com/etnz/networth"
	"github.com/etnz/networth/date"
	"github.com/shopspring/decimal"
)

// Table is an in-memory set of rates.
//
// A rate applies from its day until the next one recorded for the same pair.
// The inverse pair is derived when it was not set explicitly. Days after
// today are unavailable, whatever the table holds.
type Table struct {
	pairs map[string]*date.History[decimal.Decimal]
	today func() date.Date
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{pairs: make(map[string]*date.History[decimal.Decimal]), today: date.Today}
}

// Clock sets the function returning the current day.
func (t *Table) Clock(today func() date.Date) *Table {
	t.today = today
	return t
}

func pair(from, to string) string { return from + "/" + to }

// Set records that one 'from' is worth 'rate' 'to' from day 'on'.
func (t *Table) Set(on date.Date, from, to string, rate decimal.Decimal) *Table {
	h, ok := t.pairs[pair(from, to)]
	if !ok {
		h = new(date.History[decimal.Decimal])
		t.pairs[pair(from, to)] = h
	}
	h.Append(on, rate)
	return t
}

// Rate implements networth.RateProvider.
func (t *Table) Rate(_ context.Context, on date.Date, from, to string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	if today := t.today(); on.After(today) {
		return decimal.Zero, networth.Unavailable("%s is a date in the future", on)
	}
	if h, ok := t.pairs[pair(from, to)]; ok {
		if r, ok := h.ValueAsOf(on); ok {
			return r, nil
		}
	}
	if h, ok := t.pairs[pair(to, from)]; ok {
		if r, ok := h.ValueAsOf(on); ok && !r.IsZero() {
			return decimal.NewFromInt(1).Div(r), nil
		}
	}
	return decimal.Zero, networth.Unavailable("no %s/%s rate on %s", from, to, on)
}
