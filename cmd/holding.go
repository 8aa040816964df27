package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/networth"
	"github.com/etnz/networth/date"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type addCmd struct {
	category    string
	subcategory string
	currency    string
	description string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a holding to the portfolio" }
func (*addCmd) Usage() string {
	return `nw add -s <subcategory> [-k <category>] [-c <currency>] [-d <description>] <name>

  Adds an asset or a liability to the portfolio. Subcategories are:
    account, fund      a single position, each purchase adds to its value
    stock              a whole number of shares
    real-estate        a share of ownership, between 0 and 1
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "k", "asset", "Category: asset or liability.")
	f.StringVar(&c.subcategory, "s", "", "Subcategory: account, fund, stock or real-estate.")
	f.StringVar(&c.currency, "c", "", "Currency of the holding. Defaults to the portfolio currency.")
	f.StringVar(&c.description, "d", "", "Description of the holding.")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usagef("add requires exactly one holding name")
	}
	a, err := newApp()
	if err != nil {
		return failf("%v", err)
	}
	p, err := a.open()
	if err != nil {
		return failf("%v", err)
	}
	if p.Holding(f.Arg(0)) != nil {
		return failf("holding %q already exists", f.Arg(0))
	}

	currency := c.currency
	if currency == "" {
		currency = p.Currency()
	}
	h, err := p.AddHolding(c.category, c.subcategory, currency, f.Arg(0), c.description)
	if err != nil {
		return failf("%v", err)
	}
	if err := a.save(p); err != nil {
		return failf("%v", err)
	}
	fmt.Fprintf(stdout, "Added %s %s %q in %s\n", h.Subcategory(), h.Category(), h.Name(), h.Currency())
	return subcommands.ExitSuccess
}

type renameCmd struct{}

func (*renameCmd) Name() string     { return "rename" }
func (*renameCmd) Synopsis() string { return "rename a holding" }
func (*renameCmd) Usage() string {
	return `nw rename <old name> <new name>
`
}

func (*renameCmd) SetFlags(*flag.FlagSet) {}

func (*renameCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return usagef("rename requires the old and the new holding names")
	}
	a, err := newApp()
	if err != nil {
		return failf("%v", err)
	}
	p, err := a.open()
	if err != nil {
		return failf("%v", err)
	}
	h := p.Holding(f.Arg(0))
	if h == nil {
		return failf("holding %q not found", f.Arg(0))
	}
	if p.Holding(f.Arg(1)) != nil {
		return failf("holding %q already exists", f.Arg(1))
	}
	if err := h.SetName(f.Arg(1)); err != nil {
		return failf("%v", err)
	}
	if err := a.save(p); err != nil {
		return failf("%v", err)
	}
	return subcommands.ExitSuccess
}

type removeCmd struct{}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "remove a holding and its history" }
func (*removeCmd) Usage() string {
	return `nw remove <name>

  Removes the holding from the portfolio. Removing a holding that does not
  exist is not an error.
`
}

func (*removeCmd) SetFlags(*flag.FlagSet) {}

func (*removeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usagef("remove requires exactly one holding name")
	}
	a, err := newApp()
	if err != nil {
		return failf("%v", err)
	}
	p, err := a.open()
	if err != nil {
		return failf("%v", err)
	}
	h := p.Holding(f.Arg(0))
	if h == nil {
		a.log.Info().Str("holding", f.Arg(0)).Msg("nothing to remove")
		return subcommands.ExitSuccess
	}
	p.RemoveHolding(h)
	if err := a.save(p); err != nil {
		return failf("%v", err)
	}
	return subcommands.ExitSuccess
}

type purchaseCmd struct {
	date  string
	units string
	price string
	fees  string
}

func (*purchaseCmd) Name() string     { return "purchase" }
func (*purchaseCmd) Synopsis() string { return "record the purchase of a holding" }
func (*purchaseCmd) Usage() string {
	return `nw purchase -d <date> -p <unit price> [-u <units>] [-fees <fees>] <holding>

  Records a purchase dated before today. Amounts are in the holding currency.
  Every purchase adds units x price to the holding value.

Usage Examples:
# 10 shares at 42.5, with 2.99 of fees.
$ nw purchase -d 2021-05-12 -u 10 -p 42.5 -fees 2.99 ACME

# 12000 paid into the savings account last week.
$ nw purchase -d -1w -p 12000 Savings
`
}

func (c *purchaseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "-1d", "Purchase date. See the user manual for supported date formats.")
	f.StringVar(&c.units, "u", "1", "Units purchased.")
	f.StringVar(&c.price, "p", "", "Unit price.")
	f.StringVar(&c.fees, "fees", "0", "Fees paid for the purchase.")
}

func (c *purchaseCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usagef("purchase requires exactly one holding name")
	}
	on, err := date.Parse(c.date)
	if err != nil {
		return usagef("parsing date: %v", err)
	}
	units, price, fees, err := parseAmounts(c.units, c.price, c.fees)
	if err != nil {
		return usagef("%v", err)
	}

	a, err := newApp()
	if err != nil {
		return failf("%v", err)
	}
	p, err := a.open()
	if err != nil {
		return failf("%v", err)
	}
	h := p.Holding(f.Arg(0))
	if h == nil {
		return failf("holding %q not found", f.Arg(0))
	}
	if err := h.Purchase(on, networth.Q(units), networth.M(price, h.Currency()), networth.M(fees, h.Currency())); err != nil {
		return failf("%v", err)
	}
	if err := a.save(p); err != nil {
		return failf("%v", err)
	}
	s, _ := h.Timeline().AsOf(on)
	fmt.Fprintf(stdout, "%s on %s: %s units, value %s, cost %s\n", h.Name(), on, s.Units(), s.Value(), s.Cost())
	return subcommands.ExitSuccess
}

// parseAmounts parses the decimal flags of a purchase.
func parseAmounts(units, price, fees string) (u, p, f decimal.Decimal, err error) {
	if strings.TrimSpace(price) == "" {
		return u, p, f, fmt.Errorf("the unit price -p is required")
	}
	values := []*decimal.Decimal{&u, &p, &f}
	for i, s := range []string{units, price, fees} {
		v, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return u, p, f, fmt.Errorf("invalid number %q: %w", s, err)
		}
		*values[i] = v
	}
	return u, p, f, nil
}
