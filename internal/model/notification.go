package model

// Notification is a portfolio alert produced by the backend, such as a large
// daily drop or an upcoming earnings date.
type Notification struct {
	ID        int64  `json:"id"`
	Ticker    string `json:"ticker"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}
