package request_test

import (
	"encoding/json"
	"testing"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/api/request"
)

// TestShareInput_UnmarshalJSON tests that share counts keep their raw text.
//
// WHY: Share entry accepts strings and numbers alike; invalid values must
// still reach the selection store so they are stored as 0 instead of
// failing the request.
func TestShareInput_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"shares":"3"}`, "3"},
		{`{"shares":3}`, "3"},
		{`{"shares":-1}`, "-1"},
		{`{"shares":2.5}`, "2.5"},
		{`{"shares":"abc"}`, "abc"},
		{`{"shares":null}`, ""},
		{`{}`, ""},
		{`{"shares":true}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			var req request.SetSharesRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("Unmarshal() returned unexpected error: %v", err)
			}
			if string(req.Shares) != tt.want {
				t.Errorf("Shares = %q, want %q", req.Shares, tt.want)
			}
		})
	}
}

func TestIncrementSharesRequest_DeltaOrDefault(t *testing.T) {
	var req request.IncrementSharesRequest
	if err := json.Unmarshal([]byte(`{}`), &req); err != nil {
		t.Fatalf("Unmarshal() returned unexpected error: %v", err)
	}
	if got := req.DeltaOrDefault(); got != 1 {
		t.Errorf("Expected default delta 1, got %d", got)
	}

	if err := json.Unmarshal([]byte(`{"delta":-2}`), &req); err != nil {
		t.Fatalf("Unmarshal() returned unexpected error: %v", err)
	}
	if got := req.DeltaOrDefault(); got != -2 {
		t.Errorf("Expected delta -2, got %d", got)
	}
}

func TestParseLimit(t *testing.T) {
	tests := map[string]int{"": 20, "5": 5, "0": 20, "-3": 20, "x": 20}
	for raw, want := range tests {
		if got := request.ParseLimit(raw, 20); got != want {
			t.Errorf("ParseLimit(%q) = %d, want %d", raw, got, want)
		}
	}
}
