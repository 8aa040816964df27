package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/networth"
	"github.com/etnz/networth/date"
	"github.com/etnz/networth/renderer"
	"github.com/google/subcommands"
)

type showCmd struct{}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display the portfolio or a holding timeline" }
func (*showCmd) Usage() string {
	return `nw show [<holding>]

  Without argument, lists the holdings of the portfolio. With a holding name,
  displays its snapshots and its ledger.
`
}

func (*showCmd) SetFlags(*flag.FlagSet) {}

func (*showCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return failf("%v", err)
	}
	p, err := a.open()
	if err != nil {
		return failf("%v", err)
	}
	switch f.NArg() {
	case 0:
		a.printMarkdown(renderer.PortfolioMarkdown(p))
	case 1:
		h := p.Holding(f.Arg(0))
		if h == nil {
			return failf("holding %q not found", f.Arg(0))
		}
		a.printMarkdown(renderer.HoldingMarkdown(h))
	default:
		return usagef("show accepts at most one holding name")
	}
	return subcommands.ExitSuccess
}

type balanceCmd struct {
	date     string
	currency string
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "display the portfolio or a holding balance on a date" }
func (*balanceCmd) Usage() string {
	return `nw balance [-d <date>] [-c <currency>] [<holding>]

  Displays the value of the portfolio, or of a single holding, on a given date.
  A holding balance also shows the amount invested in it, fees included, in
  the holding currency.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "0d", "Date of the balance. See the user manual for supported date formats.")
	f.StringVar(&c.currency, "c", "", "Currency of a holding balance. Defaults to the portfolio currency.")
}

func (c *balanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.date)
	if err != nil {
		return usagef("parsing date: %v", err)
	}
	a, err := newApp()
	if err != nil {
		return failf("%v", err)
	}
	p, err := a.open()
	if err != nil {
		return failf("%v", err)
	}

	switch f.NArg() {
	case 0:
		if c.currency != "" {
			return usagef("-c applies to a holding balance only, the portfolio reports in %s", p.Currency())
		}
		balance, err := p.Balance(ctx, on)
		if err != nil {
			return failf("%v", err)
		}
		a.printMarkdown(renderer.BalanceMarkdown(p, on, balance))
	case 1:
		h := p.Holding(f.Arg(0))
		if h == nil {
			return failf("holding %q not found", f.Arg(0))
		}
		currency := c.currency
		if currency == "" {
			currency = p.Currency()
		}
		balance, err := h.Balance(ctx, on, currency)
		if err != nil {
			return failf("%v", err)
		}
		fmt.Fprintf(stdout, "%s on %s: %s (cost %s)\n", h.Name(), on, balance, h.Cost(on))
	default:
		return usagef("balance accepts at most one holding name")
	}
	return subcommands.ExitSuccess
}

type breakdownCmd struct {
	date string
	png  string
}

func (*breakdownCmd) Name() string     { return "breakdown" }
func (*breakdownCmd) Synopsis() string { return "display the share of each subcategory in the balance" }
func (*breakdownCmd) Usage() string {
	return `nw breakdown [-d <date>] [-png <file>]

  Displays the share of accounts, funds, stocks and real estate in the
  portfolio balance. With -png, also writes a pie chart.
`
}

func (c *breakdownCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "0d", "Date of the breakdown. See the user manual for supported date formats.")
	f.StringVar(&c.png, "png", "", "Write a pie chart to that PNG file.")
}

func (c *breakdownCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.date)
	if err != nil {
		return usagef("parsing date: %v", err)
	}
	a, err := newApp()
	if err != nil {
		return failf("%v", err)
	}
	p, err := a.open()
	if err != nil {
		return failf("%v", err)
	}
	shares, err := p.Breakdown(ctx, on)
	if errors.Is(err, networth.ErrEmptyAggregate) {
		fmt.Fprintf(stdout, "%s has no value on %s\n", p.Name(), on)
		return subcommands.ExitSuccess
	}
	if err != nil {
		return failf("%v", err)
	}
	a.printMarkdown(renderer.BreakdownMarkdown(p, on, shares))

	if c.png != "" {
		title := fmt.Sprintf("%s on %s", p.Name(), on)
		if err := writeFile(c.png, func(f *os.File) error { return renderer.BreakdownChart(f, title, shares) }); err != nil {
			return failf("%v", err)
		}
	}
	return subcommands.ExitSuccess
}

type historyCmd struct {
	period string
	start  string
	date   string
	png    string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the portfolio balance over time" }
func (*historyCmd) Usage() string {
	return `nw history [-p <period>] [-s <start_date>] [-d <end_date>] [-png <file>]

  Displays the balance at the end of every period between the start and end
  dates. The start date defaults to the first purchase.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "month", "Period between two balances (day, week, month, quarter, year).")
	f.StringVar(&c.start, "s", "", "The start date. Defaults to the first purchase.")
	f.StringVar(&c.date, "d", "0d", "The end date (defaults to today).")
	f.StringVar(&c.png, "png", "", "Write a line chart to that PNG file.")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	period, err := date.ParsePeriod(c.period)
	if err != nil {
		return usagef("parsing period: %v", err)
	}
	end, err := date.Parse(c.date)
	if err != nil {
		return usagef("parsing end date: %v", err)
	}
	a, err := newApp()
	if err != nil {
		return failf("%v", err)
	}
	p, err := a.open()
	if err != nil {
		return failf("%v", err)
	}

	var start date.Date
	if c.start != "" {
		if start, err = date.Parse(c.start); err != nil {
			return usagef("parsing start date: %v", err)
		}
	} else if start = inception(p); start.IsZero() {
		fmt.Fprintf(stdout, "%s has no purchase yet\n", p.Name())
		return subcommands.ExitSuccess
	}

	r := date.Range{From: start, To: end}
	series, err := p.BalanceSeries(ctx, r, period)
	if err != nil {
		return failf("%v", err)
	}
	a.printMarkdown(renderer.SeriesMarkdown(p, r, period, series))

	if c.png != "" {
		if err := writeFile(c.png, func(f *os.File) error { return renderer.SeriesChart(f, p.Name(), series) }); err != nil {
			return failf("%v", err)
		}
	}
	return subcommands.ExitSuccess
}

// inception returns the day of the first snapshot of the portfolio, or the zero date.
func inception(p *networth.Portfolio) date.Date {
	var first date.Date
	for h := range p.Holdings() {
		for s := range h.Timeline().Snapshots() {
			if first.IsZero() || s.On().Before(first) {
				first = s.On()
			}
			break
		}
	}
	return first
}

// writeFile creates 'name' and writes it with 'write'.
func writeFile(name string, write func(*os.File) error) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("error writing %q: %w", name, err)
	}
	return f.Close()
}
