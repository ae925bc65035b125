// Package request holds the JSON request bodies accepted by the API.
package request

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ShareInput is a share count as typed by the user. It accepts a JSON string
// ("3", "abc") or a JSON number (3, -1, 2.5) and keeps the raw text, so the
// selection store can apply its own parsing rules to both.
type ShareInput string

// UnmarshalJSON keeps strings verbatim and numbers as their literal text.
// null and other JSON types become the empty input.
func (s *ShareInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*s = ""
	case data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = ShareInput(str)
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			*s = ""
			return nil
		}
		*s = ShareInput(num.String())
	}
	return nil
}

// SetSharesRequest is the body of PUT /api/selection/{ticker}.
type SetSharesRequest struct {
	Shares ShareInput `json:"shares"`
}

// IncrementSharesRequest is the body of POST /api/selection/{ticker}/increment.
// A missing delta means one share.
type IncrementSharesRequest struct {
	Delta *int `json:"delta,omitempty"`
}

// DeltaOrDefault returns the requested delta, 1 when absent.
func (r IncrementSharesRequest) DeltaOrDefault() int {
	if r.Delta == nil {
		return 1
	}
	return *r.Delta
}

// RecommendationRequest is the body of POST /api/recommendations.
type RecommendationRequest struct {
	Strategy string `json:"strategy"`
}

// ParseLimit parses the limit query parameter of list endpoints.
// Empty or invalid values yield def.
func ParseLimit(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
