package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/model"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/service"
)

type recommendCmd struct {
	strategy string
}

func (*recommendCmd) Name() string     { return "recommend" }
func (*recommendCmd) Synopsis() string { return "list the backend's recommendations for a strategy" }
func (*recommendCmd) Usage() string {
	return `recommend [-strategy growth|dividend|risk_minimization]

  Prints the stocks the backend recommends for the strategy, with their
  price and the reason they were picked.
`
}

func (c *recommendCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.strategy, "strategy", string(model.StrategyGrowth), "recommendation strategy")
}

func (c *recommendCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	rt, err := newApp()
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer rt.close()

	svc := service.NewRecommendationService(rt.backend, service.NewSelectionStore(), rt.logger)
	catalog, err := svc.Load(ctx, c.strategy)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}

	printCatalog(catalog)
	return subcommands.ExitSuccess
}

func printCatalog(catalog []model.CatalogEntry) {
	if len(catalog) == 0 {
		fmt.Println("no recommendations")
		return
	}
	width := 0
	for _, e := range catalog {
		width = max(width, len(e.Ticker))
	}
	for _, e := range catalog {
		fmt.Printf("%-*s  %12s  %s\n", width, e.Ticker, model.FormatAmount(e.CurrentPrice, e.Currency), strings.TrimSpace(e.Reason))
	}
}
