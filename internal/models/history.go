package models

import "time"

// HistoryKind distinguishes a plain visit from resuming a resource.
type HistoryKind string

const (
	HistoryVisit  HistoryKind = "visit"
	HistoryResume HistoryKind = "resume"
)

// HistoryItem is one recent-activity entry.
type HistoryItem struct {
	Name      string      `json:"name"`
	Timestamp time.Time   `json:"timestamp"`
	Type      HistoryKind `json:"type"`
}
