package apperrors

import (
	"errors"
	"fmt"
)

// Lookup errors represent tickers or records that could not be resolved.
var (
	// ErrSymbolNotFound indicates that the market-data provider has no data for a symbol.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrUnknownTicker indicates that a selected ticker has no matching catalog entry,
	// so no reference price is known for it.
	ErrUnknownTicker = errors.New("unknown ticker")

	// ErrPriceUnavailable indicates that the latest quote for a ticker could not be
	// fetched or parsed. It is never replaced by a zero price.
	ErrPriceUnavailable = errors.New("price unavailable")

	// ErrCommitNotFound indicates that no journaled commit has the given ID.
	ErrCommitNotFound = errors.New("commit not found")
)

// Validation errors are raised before any remote call is made.
var (
	// ErrInvalidTicker indicates a ticker that is not 1-5 uppercase letters.
	ErrInvalidTicker = errors.New("invalid ticker")

	// ErrInvalidShareCount indicates a share count that is not a non-negative integer.
	// The selection normalizes such input to 0 instead of returning this error.
	ErrInvalidShareCount = errors.New("invalid share count")

	// ErrInvalidStrategy indicates an unsupported recommendation strategy.
	ErrInvalidStrategy = errors.New("invalid strategy")

	ErrInvalidDays = errors.New("days must be a positive integer")
)

// Remote errors represent failures talking to the backend or the market-data provider.
var (
	// ErrNetwork indicates that the remote service could not be reached.
	ErrNetwork = errors.New("network error")

	// ErrRemoteRejected indicates that the remote service answered with a non-success status.
	ErrRemoteRejected = errors.New("remote rejected request")

	ErrFailedToRecordCommit = errors.New("failed to record commit")
	ErrFailedToListCommits  = errors.New("failed to list commits")
)

// RemoteError carries the status and message of a rejected remote call.
// It matches ErrRemoteRejected with errors.Is.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote rejected request with status %d", e.StatusCode)
	}
	return fmt.Sprintf("remote rejected request with status %d: %s", e.StatusCode, e.Message)
}

// Unwrap lets errors.Is(err, ErrRemoteRejected) match.
func (e *RemoteError) Unwrap() error {
	return ErrRemoteRejected
}

// Kind returns the taxonomy name of err as exposed to API clients.
// Conditions are checked in a fixed order, so a price failure caused by an unknown symbol
// is reported as "PriceUnavailable". Errors outside the taxonomy are reported
// as "Internal".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidTicker):
		return "InvalidTicker"
	case errors.Is(err, ErrInvalidShareCount):
		return "InvalidShareCount"
	case errors.Is(err, ErrPriceUnavailable):
		return "PriceUnavailable"
	case errors.Is(err, ErrSymbolNotFound), errors.Is(err, ErrCommitNotFound):
		return "NotFound"
	case errors.Is(err, ErrUnknownTicker):
		return "UnknownTicker"
	case errors.Is(err, ErrNetwork):
		return "NetworkError"
	case errors.Is(err, ErrRemoteRejected):
		return "RemoteRejected"
	case errors.Is(err, ErrInvalidStrategy):
		return "InvalidStrategy"
	case errors.Is(err, ErrInvalidDays):
		return "InvalidDays"
	default:
		return "Internal"
	}
}
