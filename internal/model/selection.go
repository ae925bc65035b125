package model

import "sort"

// Selection maps ticker to the number of shares the user wants to add.
// Only touched tickers are present; an absent ticker means zero shares.
type Selection map[string]int

// Shares returns the share count for ticker, 0 when absent.
func (s Selection) Shares(ticker string) int {
	return s[ticker]
}

// Clone returns an independent copy of the selection.
func (s Selection) Clone() Selection {
	c := make(Selection, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// Active returns the tickers with a positive share count, sorted.
func (s Selection) Active() []string {
	tickers := make([]string, 0, len(s))
	for t, n := range s {
		if n > 0 {
			tickers = append(tickers, t)
		}
	}
	sort.Strings(tickers)
	return tickers
}
