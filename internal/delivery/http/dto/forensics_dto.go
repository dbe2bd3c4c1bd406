package dto

import "mastersol/internal/domain"

// FilterRequest represents a forensics filter change
type FilterRequest struct {
	Filter string `json:"filter"`
}

// TokenOutput represents one forensics row in API responses
type TokenOutput struct {
	domain.AnalyzedToken
	EventLabel string `json:"event_label"`
}

// NewTokenOutputs converts forensics rows, keeping their order
func NewTokenOutputs(tokens []domain.AnalyzedToken) []TokenOutput {
	out := make([]TokenOutput, len(tokens))
	for i, t := range tokens {
		out[i] = TokenOutput{AnalyzedToken: t, EventLabel: t.EventType.Label()}
	}
	return out
}
