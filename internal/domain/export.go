package domain

import "time"

// DocumentVersion is the only export document version Import accepts.
const DocumentVersion = 1

// Document is the whole-dataset export/import format.
// Exporting and re-importing a Document reproduces every record by ID.
type Document struct {
	Version      int           `json:"version" yaml:"version"`
	ExportDate   time.Time     `json:"export_date" yaml:"export_date"`
	Trips        []Trip        `json:"trips" yaml:"trips"`
	Participants []Participant `json:"participants" yaml:"participants"`
	DrinkTypes   []DrinkType   `json:"drink_types" yaml:"drink_types"`
	DrinkEvents  []DrinkEvent  `json:"drink_events" yaml:"drink_events"`
}

// ExportRow is a single row in the flat CSV export.
// It is a denormalized view: one row per drink event, with trip,
// participant and drink type names repeated on every row.
type ExportRow struct {
	TripID          string
	TripName        string
	TripStartDate   string // "2006-01-02" formatted date
	TripEndDate     string // empty string when nil
	EventID         string
	ParticipantName string
	DrinkTypeName   string
	Timestamp       time.Time
	Date            string
	HasPhoto        bool
}
