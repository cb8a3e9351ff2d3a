package models

import "time"

// LookupRecord is one persisted point query: where it was, how many alert
// polygons contained it, and the matched headlines for quick display.
type LookupRecord struct {
	ID         string
	Latitude   float64
	Longitude  float64
	MatchCount int
	Headlines  []string
	CreatedAt  time.Time
}
