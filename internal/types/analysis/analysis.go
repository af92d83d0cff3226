package analysis

type AnalyzeRequest struct {
	Content string `json:"content"`
	UserID  string `json:"user_id,omitempty"`
}

type RateLimitInfo struct {
	RemainingRequests int `json:"remaining_requests"`
	MaxRequests       int `json:"max_requests"`
	WindowSeconds     int `json:"window_seconds"`
}

// Result describes the negative words found in a piece of text and, when
// some were found, a softened rewrite of it.
type Result struct {
	ContainsNegativeWords bool           `json:"contains_negative_words"`
	FoundWords            []string       `json:"found_words"`
	SuggestionAvailable   bool           `json:"suggestion_available"`
	RewrittenText         *string        `json:"rewritten_text"`
	Error                 *string        `json:"error"`
	RateLimit             *RateLimitInfo `json:"rate_limit,omitempty"`
}
