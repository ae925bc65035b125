package alphavantage

import (
	"time"

	"github.com/shopspring/decimal"
)

// notice holds the fields Alpha Vantage puts in an HTTP 200 body instead of data.
//   - Note / Information: quota or premium-endpoint messages
//   - ErrorMessage: invalid call, typically an unknown symbol
type notice struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

// SymbolSearchResponse represents the raw SYMBOL_SEARCH response.
type SymbolSearchResponse struct {
	notice
	BestMatches []SymbolMatch `json:"bestMatches"`
}

// SymbolMatch is one candidate returned by SYMBOL_SEARCH, best match first.
type SymbolMatch struct {
	Symbol      string `json:"1. symbol"`
	Name        string `json:"2. name"`
	Type        string `json:"3. type"`
	Region      string `json:"4. region"`
	MarketOpen  string `json:"5. marketOpen"`
	MarketClose string `json:"6. marketClose"`
	Timezone    string `json:"7. timezone"`
	Currency    string `json:"8. currency"`
	MatchScore  string `json:"9. matchScore"`
}

// GlobalQuoteResponse represents the raw GLOBAL_QUOTE response.
// An unknown symbol yields an empty GlobalQuote object rather than an error.
type GlobalQuoteResponse struct {
	notice
	GlobalQuote RawQuote `json:"Global Quote"`
}

// RawQuote holds the string-encoded fields of a global quote.
type RawQuote struct {
	Symbol           string `json:"01. symbol"`
	Open             string `json:"02. open"`
	High             string `json:"03. high"`
	Low              string `json:"04. low"`
	Price            string `json:"05. price"`
	Volume           string `json:"06. volume"`
	LatestTradingDay string `json:"07. latest trading day"`
	PreviousClose    string `json:"08. previous close"`
	Change           string `json:"09. change"`
	ChangePercent    string `json:"10. change percent"`
}

// TimeSeriesDailyResponse represents the raw TIME_SERIES_DAILY response.
// TimeSeries is keyed by trading date (YYYY-MM-DD); map order carries no meaning.
type TimeSeriesDailyResponse struct {
	notice
	MetaData   map[string]string   `json:"Meta Data"`
	TimeSeries map[string]RawDaily `json:"Time Series (Daily)"`
}

// RawDaily holds one day of string-encoded OHLCV data.
type RawDaily struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// Quote is a parsed global quote.
type Quote struct {
	Symbol           string
	Price            decimal.Decimal
	PreviousClose    decimal.Decimal
	LatestTradingDay time.Time
}

// DailyBar is one parsed trading day.
type DailyBar struct {
	Date   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume int64
}
