package networth

import (
	"context"
	"iter"
	"slices"

	"github.com/etnz/networth/date"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Portfolio is a named collection of holdings sharing a reporting currency.
//
// A Portfolio is not safe for concurrent use.
type Portfolio struct {
	id          uuid.UUID
	name        string
	description string
	currency    string
	holdings    []*Holding

	rates RateProvider
	log   zerolog.Logger
	today func() date.Date
}

// Option configures a Portfolio.
type Option func(*Portfolio)

// WithRates sets the provider used to convert holdings into the portfolio currency.
func WithRates(r RateProvider) Option { return func(p *Portfolio) { p.rates = r } }

// WithLogger sets the logger receiving the portfolio's events.
func WithLogger(l zerolog.Logger) Option { return func(p *Portfolio) { p.log = l } }

// WithClock sets the function returning the current day.
func WithClock(today func() date.Date) Option { return func(p *Portfolio) { p.today = today } }

// NewPortfolio creates an empty portfolio reporting in 'currency'.
func NewPortfolio(name, description, currency string, opts ...Option) *Portfolio {
	p := &Portfolio{
		id:          uuid.New(),
		name:        name,
		description: description,
		currency:    normalizeCurrency(currency),
		rates:       noRates,
		log:         zerolog.Nop(),
		today:       date.Today,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rates == nil {
		p.rates = noRates
	}
	if p.today == nil {
		p.today = date.Today
	}
	p.log = p.log.With().Str("portfolio", p.name).Logger()
	return p
}

func (p *Portfolio) ID() uuid.UUID       { return p.id }
func (p *Portfolio) Name() string        { return p.name }
func (p *Portfolio) Description() string { return p.description }
func (p *Portfolio) Currency() string    { return p.currency }
func (p *Portfolio) Len() int            { return len(p.holdings) }

// SetDescription replaces the portfolio description.
func (p *Portfolio) SetDescription(description string) { p.description = description }

// SetName renames the portfolio.
func (p *Portfolio) SetName(name string) error {
	var v validation
	v.Op, v.Subject = "rename", p.name
	checkName(&v, name)
	if err := v.Err(); err != nil {
		return err
	}
	p.name = name
	return nil
}

// Holdings iterates over holdings in insertion order.
func (p *Portfolio) Holdings() iter.Seq[*Holding] { return slices.Values(p.holdings) }

// Holding returns the first holding named 'name', or nil.
func (p *Portfolio) Holding(name string) *Holding {
	for _, h := range p.holdings {
		if h.name == name {
			return h
		}
	}
	return nil
}

// HoldingByID returns the holding with that id, or nil.
func (p *Portfolio) HoldingByID(id uuid.UUID) *Holding {
	for _, h := range p.holdings {
		if h.id == id {
			return h
		}
	}
	return nil
}

// AddHolding creates a new holding and appends it to the portfolio.
//
// The name must have at least 3 characters, category and subcategory must be
// valid. Otherwise the returned *ValidationError lists all violations and the
// portfolio is unchanged. A currency that cannot be converted automatically is
// accepted, with a warning.
func (p *Portfolio) AddHolding(category, subcategory, currency, name, description string) (*Holding, error) {
	var v validation
	v.Op, v.Subject = "add holding", name

	checkName(&v, name)
	cat, err := ParseCategory(category)
	if err != nil {
		v.Violations = append(v.Violations, err)
	}
	sub, err := ParseSubcategory(subcategory)
	if err != nil {
		v.Violations = append(v.Violations, err)
	}
	if err := v.Err(); err != nil {
		p.log.Warn().Str("holding", name).Err(err).Msg("holding not added")
		return nil, err
	}

	currency = normalizeCurrency(currency)
	if !IsSupported(currency) {
		p.log.Warn().Str("holding", name).Str("currency", currency).Msg("automatic conversion of this currency is not supported")
	}

	h := &Holding{
		id:          uuid.New(),
		name:        name,
		description: description,
		category:    cat,
		subcategory: sub,
		currency:    currency,
		owner:       p,
	}
	p.holdings = append(p.holdings, h)
	p.log.Debug().Str("holding", name).Stringer("id", h.id).Msg("holding added")
	return h, nil
}

// RemoveHolding removes h from the portfolio. It returns true when h is no
// longer part of the portfolio, whether it was there or not.
func (p *Portfolio) RemoveHolding(h *Holding) bool {
	i := slices.Index(p.holdings, h)
	if i < 0 {
		return true
	}
	p.holdings = slices.Delete(p.holdings, i, i+1)
	h.owner = nil
	p.log.Debug().Str("holding", h.name).Stringer("id", h.id).Msg("holding removed")
	return true
}

// Balance returns the sum of all holdings' balances on day 'on', in the
// portfolio currency.
//
// Holdings without history on that day contribute zero. A conversion rate that
// cannot be resolved is an error.
func (p *Portfolio) Balance(ctx context.Context, on date.Date) (Money, error) {
	total := M(0, p.currency)
	for _, h := range p.holdings {
		b, err := h.Balance(ctx, on, p.currency)
		if err != nil {
			return Money{}, err
		}
		total = total.Add(b)
	}
	return total, nil
}

// Breakdown returns the share of each subcategory in the balance on day 'on',
// in percent.
//
// Subcategories without holdings are absent. It returns ErrEmptyAggregate when
// the total balance is zero.
func (p *Portfolio) Breakdown(ctx context.Context, on date.Date) (map[Subcategory]Percent, error) {
	total := decimal.Zero
	buckets := make(map[Subcategory]decimal.Decimal)
	for _, h := range p.holdings {
		b, err := h.Balance(ctx, on, p.currency)
		if err != nil {
			return nil, err
		}
		total = total.Add(b.Amount())
		buckets[h.subcategory] = buckets[h.subcategory].Add(b.Amount())
	}
	if total.IsZero() {
		return nil, ErrEmptyAggregate
	}

	hundred := decimal.NewFromInt(100)
	shares := make(map[Subcategory]Percent, len(buckets))
	for sub, b := range buckets {
		shares[sub] = Percent(b.Mul(hundred).Div(total).InexactFloat64())
	}
	return shares, nil
}

// BalancePoint is the portfolio balance at a given day.
type BalancePoint struct {
	On      date.Date
	Balance Money
}

// BalanceSeries returns the balance at the end of every 'period' of range 'r'.
func (p *Portfolio) BalanceSeries(ctx context.Context, r date.Range, period date.Period) ([]BalancePoint, error) {
	var series []BalancePoint
	for on := range r.Ends(period) {
		b, err := p.Balance(ctx, on)
		if err != nil {
			return nil, err
		}
		series = append(series, BalancePoint{On: on, Balance: b})
	}
	return series, nil
}
