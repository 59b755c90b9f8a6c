package types

import (
	"encoding/json"
	"time"
)

// PredictionResult is the scoring service's answer to a submission.
// Raw keeps every field exactly as returned.
type PredictionResult struct {
	FormattedPrice string          `json:"formatted_price"`
	PredictedPrice float64         `json:"predicted_price"`
	Raw            json.RawMessage `json:"-"`
}

// HistoryTimestampLayout is the timestamp format of history entries.
const HistoryTimestampLayout = "2006-01-02 15:04:05"

// HistoryEntry is one past prediction of the current user.
type HistoryEntry struct {
	ID             int64   `json:"id"`
	City           string  `json:"city"`
	Neighborhood   string  `json:"neighborhood"`
	PropertyType   string  `json:"property_type,omitempty"`
	PredictedPrice float64 `json:"predicted_price"`
	Timestamp      string  `json:"timestamp"`
}

// Time parses Timestamp; the zero time is returned when it is malformed.
func (e HistoryEntry) Time() time.Time {
	t, err := time.Parse(HistoryTimestampLayout, e.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}
