package backend

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Portfolio-Stock-Picker/internal/model"
)

// addRequest is the body of POST /api/portfolio/add. Price is sent as a JSON
// number, not the quoted string decimal.Decimal marshals to.
type addRequest struct {
	Ticker string      `json:"ticker"`
	Shares int         `json:"shares"`
	Price  json.Number `json:"price"`
}

// messageResponse covers the {message} and {error} bodies the backend returns.
type messageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Status  string `json:"status"`
}

func (m messageResponse) text() string {
	if m.Message != "" {
		return m.Message
	}
	return m.Error
}

type recommendationsRequest struct {
	Strategy model.Strategy `json:"strategy"`
}

type recommendationsResponse struct {
	Strategy        model.Strategy         `json:"strategy"`
	Recommendations []model.Recommendation `json:"recommendations"`
}

// historyRecord is one row of GET /api/stock/history/{ticker}.
type historyRecord struct {
	Date  string          `json:"Date"`
	Close decimal.Decimal `json:"Close"`
}
