package domain

// InsightKind names what an insight request analyzes
type InsightKind string

// InsightKind constants
const (
	InsightTrading InsightKind = "trading"
	InsightToken   InsightKind = "token"
)

// InsightPanel is the display surface of the most recent insight request
type InsightPanel struct {
	Open    bool        `json:"open"`
	Loading bool        `json:"loading"`
	Kind    InsightKind `json:"kind,omitempty"`
	Title   string      `json:"title"`
	Text    string      `json:"text"`
}
