package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/apperrors"
	"github.com/ndewijer/Portfolio-Stock-Picker/internal/model"
)

var tickerPattern = regexp.MustCompile(`^[A-Z]{1,5}$`)

// ErrInvalidCommitID indicates a commit ID that is not a UUID.
var ErrInvalidCommitID = fmt.Errorf("invalid commit ID format")

// ValidateTicker checks that ticker is 1-5 uppercase ASCII letters.
// Lowercase input is rejected rather than normalized.
func ValidateTicker(ticker string) error {
	if !tickerPattern.MatchString(ticker) {
		return fmt.Errorf("%w: %q must be 1-5 uppercase letters", apperrors.ErrInvalidTicker, ticker)
	}
	return nil
}

// ValidateSymbol performs the looser check used for symbols that did not come
// from user input, such as recommended "BRK-B": non-empty and free of whitespace.
func ValidateSymbol(symbol string) error {
	if symbol == "" || strings.ContainsAny(symbol, " \t\r\n/") {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidTicker, symbol)
	}
	return nil
}

// ParseShareCount parses raw as a non-negative base-10 integer.
// Anything else, including negatives, decimals and empty input, yields 0.
func ParseShareCount(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return NormalizeShareCount(n)
}

// NormalizeShareCount clamps n at 0.
func NormalizeShareCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// ValidateStrategy checks that s names a supported recommendation strategy.
func ValidateStrategy(s string) (model.Strategy, error) {
	strategy := model.Strategy(s)
	if !strategy.Valid() {
		return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidStrategy, s)
	}
	return strategy, nil
}

// ParseDays parses the days query parameter of a series request.
// An empty value yields def.
func ParseDays(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidDays, raw)
	}
	return n, nil
}

// ValidateCommitID checks that id has the UUID shape of a journaled commit.
func ValidateCommitID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidCommitID, id)
	}
	return nil
}
