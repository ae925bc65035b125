package main

import (
	"context"
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/google/subcommands"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/apperrors"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/model"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/service"
)

type buyCmd struct {
	strategy string
	yes      bool
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "add shares of one or more stocks to the portfolio" }
func (*buyCmd) Usage() string {
	return `buy [-strategy S] [-yes] TICKER=SHARES...

  Prices every TICKER, prints the total cost and, with -yes, adds the shares
  to the portfolio. Each ticker is added independently: a failure for one
  ticker does not stop the others.

  Without -strategy each TICKER is looked up by search and must be 1-5
  uppercase letters. With -strategy the tickers are taken from that
  strategy's recommendations instead.

  Invalid share counts count as 0 and are skipped.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.strategy, "strategy", "", "price tickers from this strategy's recommendations")
	f.BoolVar(&c.yes, "yes", false, "commit without this flag only the total is printed")
}

// parseOrders splits TICKER=SHARES arguments. The share text is kept raw so
// the selection store applies its own parsing.
func parseOrders(args []string) (map[string]string, error) {
	orders := map[string]string{}
	for _, arg := range args {
		ticker, shares, ok := strings.Cut(arg, "=")
		if !ok || ticker == "" {
			return nil, fmt.Errorf("expected TICKER=SHARES, got %q", arg)
		}
		orders[ticker] = shares
	}
	return orders, nil
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	orders, err := parseOrders(f.Args())
	if err != nil || len(orders) == 0 {
		fail("at least one TICKER=SHARES argument is required")
		return subcommands.ExitUsageError
	}

	rt, err := newApp()
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer rt.close()

	store := service.NewSelectionStore()
	if c.strategy != "" {
		recs := service.NewRecommendationService(rt.backend, store, rt.logger)
		if _, err := recs.Load(ctx, c.strategy); err != nil {
			fail("%v", err)
			return subcommands.ExitFailure
		}
	} else {
		lookup := rt.priceLookup()
		for ticker := range orders {
			entry, found, err := lookup.Search(ctx, ticker)
			switch {
			case err != nil:
				fail("%s: %v", ticker, err)
				return subcommands.ExitFailure
			case !found:
				fail("%s: stock not found", ticker)
				return subcommands.ExitFailure
			case entry.Ticker != ticker:
				fail("%s: best match is %s, use that ticker instead", ticker, entry.Ticker)
				return subcommands.ExitFailure
			}
			store.UpsertCatalogEntry(entry)
		}
	}

	for ticker, shares := range orders {
		store.SetShares(ticker, shares)
	}

	snap := store.Snapshot()
	active := snap.Selection.Active()
	if len(active) == 0 {
		fail("no ticker has a positive share count")
		return subcommands.ExitUsageError
	}
	for _, ticker := range active {
		fmt.Printf("%-6s x %d\n", ticker, snap.Selection[ticker])
	}
	fmt.Printf("total cost: %s\n", model.FormatAmount(snap.TotalCost, ""))

	if !c.yes {
		fmt.Println("dry run, pass -yes to add these shares to the portfolio")
		return subcommands.ExitSuccess
	}

	db, journal, err := rt.openJournal()
	if err != nil {
		fail("%v", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	portfolio := service.NewPortfolioSync(rt.backend, journal, rt.cfg.Sync.MaxConcurrent, rt.logger)
	outcome, record, err := portfolio.CommitSelection(ctx, store)
	if err != nil {
		fail("%v", err)
	}

	printOutcome(outcome)
	fmt.Printf("commit %s\n", record.ID)
	if len(outcome.Failed) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func printOutcome(outcome model.CommitOutcome) {
	for _, ticker := range outcome.Succeeded {
		fmt.Printf("✅ %s  %s\n", ticker, outcome.Messages[ticker])
	}

	failed := make([]string, 0, len(outcome.Failed))
	for ticker := range outcome.Failed {
		failed = append(failed, ticker)
	}
	sort.Strings(failed)
	for _, ticker := range failed {
		err := outcome.Failed[ticker]
		fmt.Printf("❌ %s  %s: %v\n", ticker, apperrors.Kind(err), err)
	}
}
