package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/model"
)

type commitsCmd struct {
	limit int
}

func (*commitsCmd) Name() string     { return "commits" }
func (*commitsCmd) Synopsis() string { return "list journaled commits, newest first" }
func (*commitsCmd) Usage() string {
	return `commits [-limit N]

  Prints the most recent commits recorded in the local journal together with
  the outcome for every ticker.
`
}

func (c *commitsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "limit", 10, "number of commits to show, 0 for all")
}

func (c *commitsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	rt, err := newApp()
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer rt.close()

	db, journal, err := rt.openJournal()
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	records, err := journal.ListCommits(ctx, c.limit)
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}

	for _, rec := range records {
		fmt.Printf("%s  %s\n", rec.CreatedAt.Local().Format("2006-01-02 15:04:05"), rec.ID)
		for _, res := range rec.Results {
			mark := "✅"
			if res.Status == model.CommitFailed {
				mark = "❌"
			}
			price := "-"
			if res.ReferencePrice.Valid {
				price = res.ReferencePrice.Decimal.StringFixed(2)
			}
			fmt.Printf("  %s %-6s x %-5d @ %-10s %s %s\n", mark, res.Ticker, res.Shares, price, res.Reason, res.Message)
		}
	}
	return subcommands.ExitSuccess
}
