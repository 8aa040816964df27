package networth

import (
	"context"
	"iter"
	"slices"
	"unicode/utf8"

	"github.com/etnz/networth/date"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// minNameLength is the minimum number of characters in a holding name.
const minNameLength = 3

// CommandType identifies the kind of a ledger transaction.
type CommandType string

// CmdPurchase is the only transaction kind so far.
const CmdPurchase CommandType = "purchase"

// Transaction is a ledger record, as it was given to the holding.
type Transaction struct {
	Command CommandType
	Date    date.Date
	Units   Quantity
	Price   Money // Price is the unit price.
	Fees    Money
}

// Holding is a single asset or liability tracked in a Portfolio.
type Holding struct {
	id          uuid.UUID
	name        string
	description string
	category    Category
	subcategory Subcategory
	currency    string

	owner    *Portfolio // not owned: set by the portfolio, cleared on removal.
	timeline Timeline
	ledger   []Transaction
}

func (h *Holding) ID() uuid.UUID            { return h.id }
func (h *Holding) Name() string             { return h.name }
func (h *Holding) Description() string      { return h.description }
func (h *Holding) Category() Category       { return h.category }
func (h *Holding) Subcategory() Subcategory { return h.subcategory }
func (h *Holding) Currency() string         { return h.currency }

// Portfolio returns the portfolio holding h, or nil if it has been removed.
func (h *Holding) Portfolio() *Portfolio { return h.owner }

// Timeline returns the holding's snapshots.
func (h *Holding) Timeline() *Timeline { return &h.timeline }

// Ledger iterates over recorded transactions, in the order they were recorded.
func (h *Holding) Ledger() iter.Seq[Transaction] { return slices.Values(h.ledger) }

// SetName renames the holding.
func (h *Holding) SetName(name string) error {
	var v validation
	v.Op, v.Subject = "rename", h.name
	checkName(&v, name)
	if err := v.Err(); err != nil {
		return err
	}
	h.name = name
	return nil
}

// SetDescription replaces the holding's description.
func (h *Holding) SetDescription(description string) { h.description = description }

func checkName(v *validation, name string) {
	if utf8.RuneCountInString(name) < minNameLength {
		v.failf("name %q is too short, want at least %d characters", name, minNameLength)
	}
}

func (h *Holding) log() *zerolog.Logger {
	if h.owner == nil {
		l := zerolog.Nop()
		return &l
	}
	return &h.owner.log
}

func (h *Holding) today() date.Date {
	if h.owner == nil || h.owner.today == nil {
		return date.Today()
	}
	return h.owner.today()
}

// Purchase records the purchase of 'units' at 'price' per unit, plus 'fees',
// on day 'on'.
//
// Amounts must be in the holding's currency, an empty currency means the
// holding's currency. The day must be strictly in the past. Units follow the
// subcategory semantics:
//   - account and fund: exactly 1, the position is a single lump;
//   - stock: a whole number of shares;
//   - real-estate: the share of ownership bought, in [0, 1].
//
// On success a new snapshot is added to the timeline and the transaction is
// appended to the ledger. On failure nothing changes and the returned
// *ValidationError lists every violated rule.
func (h *Holding) Purchase(on date.Date, units Quantity, price, fees Money) error {
	tx, err := h.validatePurchase(on, units, price, fees)
	if err != nil {
		h.log().Warn().Str("holding", h.name).Err(err).Msg("purchase rejected")
		return err
	}

	// state prior to the purchase
	prior, ok := h.timeline.AsOf(on)
	if !ok {
		prior = Snapshot{units: Q(0), cost: M(0, h.currency), value: M(0, h.currency)}
	}
	h.log().Debug().Str("holding", h.name).Stringer("on", on).
		Stringer("units", prior.units).Stringer("cost", prior.cost).Stringer("value", prior.value).
		Msg("pre-purchase")

	amount := tx.Price.Mul(tx.Units)
	next := Snapshot{
		on:    on,
		cost:  prior.cost.Add(amount).Add(tx.Fees),
		value: prior.value.Add(amount),
		units: prior.units.Add(tx.Units),
	}
	if h.subcategory.single() {
		next.units = Q(1)
	}
	h.timeline.insert(next)
	h.ledger = append(h.ledger, tx)

	h.log().Debug().Str("holding", h.name).Stringer("on", on).
		Stringer("units", next.units).Stringer("cost", next.cost).Stringer("value", next.value).
		Msg("post-purchase")
	return nil
}

// validatePurchase checks every purchase rule and returns the transaction to record.
func (h *Holding) validatePurchase(on date.Date, units Quantity, price, fees Money) (Transaction, error) {
	var v validation
	v.Op, v.Subject = "purchase", h.name

	if today := h.today(); !on.Before(today) {
		v.failf("invalid date %s, purchases must be dated before today (%s)", on, today)
	}

	// quick fix: amounts without currency are in the holding's currency.
	if price.Currency() == "" {
		price = M(price.Amount(), h.currency)
	}
	if fees.Currency() == "" {
		fees = M(fees.Amount(), h.currency)
	}
	if price.IsNegative() {
		v.failf("unit price %s must not be negative", price)
	}
	if fees.IsNegative() {
		v.failf("fees %s must not be negative", fees)
	}
	if price.Currency() != h.currency {
		v.failf("unit price currency %s does not match holding currency %s", price.Currency(), h.currency)
	}
	if fees.Currency() != h.currency {
		v.failf("fees currency %s does not match holding currency %s", fees.Currency(), h.currency)
	}

	switch h.subcategory {
	case Account, Fund:
		if !units.Equal(Q(1)) {
			v.failf("%s units must be exactly 1 for %s items", units, h.subcategory)
		}
	case Stock:
		if !units.IsInteger() {
			v.failf("%s units is not a whole number as expected for %s items", units, h.subcategory)
		}
	case RealEstate:
		if units.IsNegative() || units.GreaterThan(Q(1)) {
			v.failf("%s units is out of range [0, 1] expected for %s items", units, h.subcategory)
		}
	default:
		v.failf("%s items are not supported", h.subcategory)
	}

	tx := Transaction{Command: CmdPurchase, Date: on, Units: units, Price: price, Fees: fees}
	return tx, v.Err()
}

// Balance returns the value of the holding on day 'on', in 'currency'.
//
// A holding without snapshot on or before that day is worth zero. Otherwise
// the latest snapshot value is converted with the rate of that day; a rate
// that cannot be resolved is an error matching ErrRateUnavailable.
func (h *Holding) Balance(ctx context.Context, on date.Date, currency string) (Money, error) {
	currency = normalizeCurrency(currency)
	s, ok := h.timeline.AsOf(on)
	if !ok {
		return M(0, currency), nil
	}
	var rates RateProvider = noRates
	if h.owner != nil {
		rates = h.owner.rates
	}
	return convert(ctx, rates, on, s.value, currency)
}

// Cost returns the total invested in the holding by day 'on', fees included,
// in the holding's currency.
func (h *Holding) Cost(on date.Date) Money {
	s, ok := h.timeline.AsOf(on)
	if !ok {
		return M(0, h.currency)
	}
	return s.cost
}
