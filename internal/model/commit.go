package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CommitRequest is one "add to portfolio" call derived from the selection at commit time.
type CommitRequest struct {
	Ticker         string          `json:"ticker"`
	Shares         int             `json:"shares"`
	ReferencePrice decimal.Decimal `json:"price"`
}

// CommitOutcome aggregates the settled results of a commit.
//
// Succeeded is a sorted set of tickers. Failed maps each failed ticker to an error
// wrapping one of the apperrors taxonomy sentinels. A ticker is never in both.
type CommitOutcome struct {
	Requests  []CommitRequest
	Succeeded []string
	Failed    map[string]error
	Messages  map[string]string // Backend confirmation message per succeeded ticker
}

// Empty reports whether the commit had nothing to do.
func (o CommitOutcome) Empty() bool {
	return len(o.Requests) == 0 && len(o.Failed) == 0
}

// CommitStatus is the journaled state of one ticker in a commit.
type CommitStatus string

const (
	CommitSucceeded CommitStatus = "succeeded"
	CommitFailed    CommitStatus = "failed"
)

// CommitRecord is a journaled commit attempt.
type CommitRecord struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	Results   []CommitResult `json:"results"`
}

// CommitResult is the journaled result for one ticker.
// ReferencePrice is invalid for tickers that never had a catalog price.
type CommitResult struct {
	ID             string              `json:"id"`
	Ticker         string              `json:"ticker"`
	Shares         int                 `json:"shares"`
	ReferencePrice decimal.NullDecimal `json:"referencePrice"`
	Status         CommitStatus        `json:"status"`
	Reason         string              `json:"reason,omitempty"`
	Message        string              `json:"message,omitempty"`
}
