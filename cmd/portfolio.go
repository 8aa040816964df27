package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/etnz/networth"
	"github.com/google/subcommands"
)

type initCmd struct {
	name        string
	description string
	currency    string
	force       bool
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "create a new empty portfolio file" }
func (*initCmd) Usage() string {
	return `nw init [-c <currency>] [-d <description>] [-f] <name>

  Creates an empty portfolio with the given name. Balances are reported in
  the portfolio currency.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "c", "", "Reporting currency. Defaults to the configured currency.")
	f.StringVar(&c.description, "d", "", "Description of the portfolio.")
	f.BoolVar(&c.force, "f", false, "Overwrite an existing portfolio file.")
}

func (c *initCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usagef("init requires exactly one portfolio name")
	}
	a, err := newApp()
	if err != nil {
		return failf("%v", err)
	}
	if _, err := os.Stat(a.cfg.Portfolio); !c.force && !errors.Is(err, fs.ErrNotExist) {
		return failf("portfolio file %q already exists, use -f to overwrite it", a.cfg.Portfolio)
	}

	currency := c.currency
	if currency == "" {
		currency = a.cfg.Currency
	}
	opts, err := a.options()
	if err != nil {
		return failf("%v", err)
	}
	p := networth.NewPortfolio(f.Arg(0), c.description, currency, opts...)
	if err := p.SetName(f.Arg(0)); err != nil {
		return failf("%v", err)
	}
	if !networth.IsSupported(p.Currency()) {
		a.log.Warn().Str("currency", p.Currency()).Msg("automatic conversion of this currency is not supported")
	}
	if err := a.save(p); err != nil {
		return failf("%v", err)
	}
	fmt.Fprintf(stdout, "Created portfolio %q in %s\n", p.Name(), a.cfg.Portfolio)
	return subcommands.ExitSuccess
}

type editCmd struct {
	name        string
	description string
	holding     string
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "edit the portfolio or a holding description" }
func (*editCmd) Usage() string {
	return `nw edit [-holding <name>] [-name <name>] [-d <description>]

  Changes the portfolio name or description. With -holding, changes the description
  of that holding instead; use 'nw rename' to rename a holding.
`
}

func (c *editCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.holding, "holding", "", "Holding to edit.")
	f.StringVar(&c.name, "name", "", "New portfolio name.")
	f.StringVar(&c.description, "d", "", "New description.")
}

func (c *editCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	set := make(map[string]bool)
	f.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	if !set["name"] && !set["d"] {
		return usagef("nothing to edit, use -name or -d")
	}
	if c.holding != "" && set["name"] {
		return usagef("-name cannot be used with -holding, use 'nw rename'")
	}

	a, err := newApp()
	if err != nil {
		return failf("%v", err)
	}
	p, err := a.open()
	if err != nil {
		return failf("%v", err)
	}

	if c.holding != "" {
		h := p.Holding(c.holding)
		if h == nil {
			return failf("holding %q not found", c.holding)
		}
		h.SetDescription(c.description)
	} else {
		if set["name"] {
			if err := p.SetName(c.name); err != nil {
				return failf("%v", err)
			}
		}
		if set["d"] {
			p.SetDescription(c.description)
		}
	}
	if err := a.save(p); err != nil {
		return failf("%v", err)
	}
	return subcommands.ExitSuccess
}
