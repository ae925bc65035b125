package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/model"
)

type searchCmd struct{}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "look up a ticker and its latest price" }
func (*searchCmd) Usage() string {
	return `search <TICKER>

  Looks up TICKER (1-5 uppercase letters) and prints the best match with its
  latest price.
`
}

func (*searchCmd) SetFlags(*flag.FlagSet) {}

func (*searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fail("exactly one ticker is required")
		return subcommands.ExitUsageError
	}

	rt, err := newApp()
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer rt.close()

	entry, found, err := rt.priceLookup().Search(ctx, f.Arg(0))
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	if !found {
		fail("stock not found, please check the ticker")
		return subcommands.ExitFailure
	}

	fmt.Printf("%s  %s\n", entry.Ticker, entry.DisplayName)
	fmt.Printf("  region:   %s\n", entry.Region)
	fmt.Printf("  price:    %s\n", model.FormatAmount(entry.CurrentPrice, entry.Currency))
	return subcommands.ExitSuccess
}
