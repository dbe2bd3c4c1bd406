package domain

// EventType classifies what happened to an analyzed token
type EventType string

// EventType constants
const (
	EventRugPull    EventType = "RugPull"
	EventPump       EventType = "Pump"
	EventTier1      EventType = "Tier1"
	EventCEXListing EventType = "CEXListing"
)

// FilterAll disables event type filtering in the forensics table
const FilterAll = "All"

// EventTypes lists every event type in display order
var EventTypes = []EventType{EventRugPull, EventPump, EventTier1, EventCEXListing}

// Label returns the human readable name shown in the forensics table
func (t EventType) Label() string {
	switch t {
	case EventRugPull:
		return "Rug Pull"
	case EventPump:
		return "Pump & Dump"
	case EventTier1:
		return "Tier-1 Growth"
	case EventCEXListing:
		return "CEX Listing"
	default:
		return string(t)
	}
}

// ParseEventType accepts either the identifier or the display label.
func ParseEventType(s string) (EventType, bool) {
	for _, t := range EventTypes {
		if s == string(t) || s == t.Label() {
			return t, true
		}
	}
	return "", false
}

// AnalyzedToken represents one row of the forensics lab
type AnalyzedToken struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Symbol      string    `json:"symbol"`
	EventType   EventType `json:"event_type"`
	Date        string    `json:"date"` // YYYY-MM-DD
	MarketCap   int64     `json:"market_cap"`
	Description string    `json:"description"`
}
