package cmd

import (
	"flag"

	"github.com/etnz/networth"
	"github.com/etnz/networth/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Complete handles shell completion requests for command 'name' and exits
// when it served one. Otherwise it returns immediately.
//
// Install it in bash with: COMP_INSTALL=1 nw
func Complete(name string) {
	completion(name).Complete(name)
}

// completion returns the completion tree of all subcommands.
func completion(name string) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagPredictors(flag.CommandLine),
	}
	for _, c := range Commands {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		sub := &complete.Command{Flags: flagPredictors(fs)}
		switch c.Name() {
		case "rename", "remove", "purchase", "show", "balance":
			sub.Args = complete.PredictFunc(holdingNames)
		case "rate":
			sub.Args = predict.Set(append(append([]string{}, networth.Currencies...), networth.Crypto...))
		case "topic":
			topics, _ := docs.GetAllTopics()
			sub.Args = predict.Set(append(topics, docs.Readme))
		case "history":
			sub.Flags["p"] = predict.Set{"day", "week", "month", "quarter", "year"}
		case "add":
			sub.Flags["k"] = predict.Set{"asset", "liability"}
			sub.Flags["s"] = predict.Set{"account", "fund", "stock", "real-estate"}
		}
		root.Sub[c.Name()] = sub
	}
	return root
}

// flagPredictors returns a predictor for every flag of 'fs'.
func flagPredictors(fs *flag.FlagSet) map[string]complete.Predictor {
	predictors := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		switch f.Name {
		case "config":
			predictors[f.Name] = predict.Files("*.toml")
		case "portfolio":
			predictors[f.Name] = predict.Files("*.json")
		case "png":
			predictors[f.Name] = predict.Files("*.png")
		case "log-level":
			predictors[f.Name] = predict.Set{"debug", "info", "warn", "error"}
		case "holding":
			predictors[f.Name] = complete.PredictFunc(holdingNames)
		case "plain", "f":
			predictors[f.Name] = predict.Nothing
		default:
			predictors[f.Name] = predict.Something
		}
	})
	return predictors
}

// holdingNames predicts the holding names of the configured portfolio.
func holdingNames(string) []string {
	a, err := newApp()
	if err != nil {
		return nil
	}
	a.cfg.Rates.Offline = true // completion never goes online
	p, err := a.open()
	if err != nil {
		return nil
	}
	var names []string
	for h := range p.Holdings() {
		names = append(names, h.Name())
	}
	return names
}
