// Package model defines the data types that flow through the sentiment service.
// Struct tags (`json:"..."` and `db:"..."`) tell the JSON encoder and sqlx
// how to map fields.
package model

import (
	"fmt"
	"time"
)

// UnavailableMessage is the sentiment text returned when an analysis could not be produced.
const UnavailableMessage = "Market sentiment analysis temporarily unavailable"

// DegradedSentiment builds the placeholder text for a recovered upstream failure.
// reason is either the upstream status code or a description of the transport failure.
func DegradedSentiment(reason any) string {
	return fmt.Sprintf("%s (Error: %v)", UnavailableMessage, reason)
}

// AnalysisResponse is the success body of POST /analyze.
type AnalysisResponse struct {
	Symbol    string `json:"symbol"`
	Sentiment string `json:"sentiment"`
}

// ErrorResponse is the 200-status body returned when an analysis fails
// for any reason other than a missing symbol. Symbol holds whatever the
// caller sent, or nil when the request body could not be read.
type ErrorResponse struct {
	Error     string `json:"error"`
	Symbol    any    `json:"symbol"`
	Sentiment string `json:"sentiment"`
}

// ValidationErrorResponse is the 400 body for a missing or empty symbol.
type ValidationErrorResponse struct {
	Detail string `json:"detail"`
}

// Outcome is the terminal state of one upstream call.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeDegraded  Outcome = "degraded"
	// OutcomeFailed marks calls whose error escaped to the handler
	// (for example a malformed 200 reply).
	OutcomeFailed Outcome = "failed"
)

// SentimentResult is what the fetcher hands back to the handler.
type SentimentResult struct {
	Text    string
	Outcome Outcome
}

// ForwardedAnalysis is the payload sent to the relay service after an analysis.
type ForwardedAnalysis struct {
	Symbol    string `json:"symbol"`
	Sentiment string `json:"sentiment"`
	Type      string `json:"type"`
}

// ForwardTypeMarketSentiment is the Type of every forwarded analysis.
const ForwardTypeMarketSentiment = "market_sentiment"

// UpstreamCall tracks each call to the completion API.
type UpstreamCall struct {
	ID         int64     `db:"id" json:"id"`
	Symbol     string    `db:"symbol" json:"symbol"`
	Provider   string    `db:"provider" json:"provider"`
	Model      string    `db:"model" json:"model"`
	Outcome    Outcome   `db:"outcome" json:"outcome"`
	StatusCode *int      `db:"status_code" json:"status_code,omitempty"`
	Error      *string   `db:"error" json:"error,omitempty"`
	DurationMs int64     `db:"duration_ms" json:"duration_ms"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
