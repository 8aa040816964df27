package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/networth/date"
	"github.com/google/subcommands"
)

type rateCmd struct {
	date string
}

func (*rateCmd) Name() string     { return "rate" }
func (*rateCmd) Synopsis() string { return "display the exchange rate between two currencies" }
func (*rateCmd) Usage() string {
	return `nw rate [-d <date>] <from> <to>

  Displays how many <to> are worth one <from> on a given date. Supported
  currencies are EUR, USD, GBP, PLN and BTC.
`
}

func (c *rateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "-1d", "Date of the rate. See the user manual for supported date formats.")
}

func (c *rateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return usagef("rate requires two currencies")
	}
	on, err := date.Parse(c.date)
	if err != nil {
		return usagef("parsing date: %v", err)
	}
	from, to := strings.ToUpper(f.Arg(0)), strings.ToUpper(f.Arg(1))

	a, err := newApp()
	if err != nil {
		return failf("%v", err)
	}
	rates, err := a.rates()
	if err != nil {
		return failf("%v", err)
	}
	rate, err := rates.Rate(ctx, on, from, to)
	if err != nil {
		return failf("%v", err)
	}
	fmt.Fprintf(stdout, "1 %s = %s %s on %s\n", from, rate, to, on)
	return subcommands.ExitSuccess
}
