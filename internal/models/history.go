package models

import "time"

// HistoryLimit is the maximum number of entries returned by a history report
const HistoryLimit = 30

// UnknownTitle replaces titles that could not be looked up for a history entry
const UnknownTitle = "Unknown Title (Error)"

// ViewHistoryEntry represents a single row of the view log
type ViewHistoryEntry struct {
	ID       int       `json:"id"`
	UserID   int       `json:"userId"`
	Ref      MediaRef  `json:"media"`
	ViewTime time.Time `json:"viewTime"`
}

// HistoryItem represents a view log entry enriched with the media title
type HistoryItem struct {
	Ref      MediaRef  `json:"media"`
	ViewTime time.Time `json:"viewTime"`
	Title    string    `json:"title"`
}
