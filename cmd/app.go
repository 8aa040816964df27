// Package cmd implements the nw command line application to manage a
// personal portfolio.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/networth"
	"github.com/etnz/networth/forex"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Commands lists every nw subcommand, in help order.
var Commands = []subcommands.Command{
	&initCmd{},
	&editCmd{},
	&addCmd{},
	&renameCmd{},
	&removeCmd{},
	&purchaseCmd{},
	&showCmd{},
	&balanceCmd{},
	&breakdownCmd{},
	&historyCmd{},
	&rateCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "networth.toml", "Path to the configuration file (TOML format)")
var portfolioFile = flag.String("portfolio", "", "Path to the portfolio file. Overrides the configuration.")
var logLevel = flag.String("log-level", "", "Log level (debug, info, warn, error). Overrides the configuration.")
var plain = flag.Bool("plain", false, "Print raw markdown instead of rendering it for the terminal.")

// stdout is where reports are printed.
var stdout io.Writer = os.Stdout

// app is the state shared by the subcommands during one run.
type app struct {
	cfg *Config
	log zerolog.Logger
}

// newApp loads the configuration, flags taking precedence.
func newApp() (*app, error) {
	cfg, err := LoadConfig(*configFile)
	if err != nil {
		return nil, err
	}
	if *portfolioFile != "" {
		cfg.Portfolio = *portfolioFile
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *plain {
		cfg.Output.Plain = true
	}
	return &app{cfg: cfg, log: NewLogger(cfg.Logging, os.Stderr)}, nil
}

// rates returns the provider configured for conversions.
func (a *app) rates() (networth.RateProvider, error) {
	table, err := a.cfg.Rates.StaticTable()
	if err != nil {
		return nil, err
	}
	if a.cfg.Rates.Offline {
		return table, nil
	}
	opts := append(a.cfg.Rates.ClientOptions(), forex.WithLogger(a.log))
	fiat := forex.NewFrankfurter(append([]forex.ClientOption{forex.WithBaseURL(a.cfg.Rates.FrankfurterURL)}, opts...)...)
	crypto := forex.NewCoinDesk(append([]forex.ClientOption{forex.WithBaseURL(a.cfg.Rates.CoinDeskURL)}, opts...)...)

	online := forex.NewProvider(fiat, crypto, forex.WithProviderLogger(a.log))
	if len(a.cfg.Rates.Table) == 0 {
		return online, nil
	}
	// static rates take precedence, and may cover unsupported currencies.
	return forex.Fallback(table, online), nil
}

// options returns the portfolio options for this run.
func (a *app) options() ([]networth.Option, error) {
	rates, err := a.rates()
	if err != nil {
		return nil, err
	}
	return []networth.Option{networth.WithRates(rates), networth.WithLogger(a.log)}, nil
}

// open loads the portfolio file.
func (a *app) open() (*networth.Portfolio, error) {
	opts, err := a.options()
	if err != nil {
		return nil, err
	}
	p, err := networth.LoadPortfolio(a.cfg.Portfolio, opts...)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("portfolio file %q does not exist, create it with 'nw init'", a.cfg.Portfolio)
	}
	return p, err
}

// save writes the portfolio file.
func (a *app) save(p *networth.Portfolio) error {
	if err := networth.SavePortfolio(a.cfg.Portfolio, p); err != nil {
		return fmt.Errorf("error saving portfolio file %q: %w", a.cfg.Portfolio, err)
	}
	a.log.Info().Str("file", a.cfg.Portfolio).Msg("portfolio saved")
	return nil
}

// printMarkdown prints markdown content, rendered for the terminal unless plain output is configured.
func (a *app) printMarkdown(md string) {
	if a.cfg.Output.Plain {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := glamour.Render(md, a.cfg.Output.Style)
	if err != nil {
		a.log.Debug().Err(err).Msg("markdown rendering failed, printing raw markdown")
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}

// NewLogger creates the structured logger writing to 'w'.
func NewLogger(cfg LoggingConfig, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.WarnLevel
	}
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// failf prints an error message and returns the failure status.
func failf(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitFailure
}

// usagef prints a usage error message and returns the usage error status.
func usagef(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitUsageError
}
