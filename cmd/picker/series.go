package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type seriesCmd struct {
	days int
}

func (*seriesCmd) Name() string     { return "series" }
func (*seriesCmd) Synopsis() string { return "print recent daily closes" }
func (*seriesCmd) Usage() string {
	return `series [-days N] <TICKER>

  Prints up to N most recent daily closes of TICKER, oldest first.
`
}

func (c *seriesCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", 7, "number of trading days")
}

func (c *seriesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fail("exactly one ticker is required")
		return subcommands.ExitUsageError
	}
	if c.days <= 0 {
		fail("-days must be positive")
		return subcommands.ExitUsageError
	}

	rt, err := newApp()
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer rt.close()

	points, err := rt.priceLookup().FetchRecentSeries(ctx, f.Arg(0), c.days)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	if len(points) == 0 {
		fmt.Printf("no data for %s\n", f.Arg(0))
		return subcommands.ExitSuccess
	}

	for _, p := range points {
		fmt.Printf("%s  %s\n", p.Date.Format("2006-01-02"), p.Close.StringFixed(2))
	}
	return subcommands.ExitSuccess
}
