package db

import "time"

// Word is a distinct Greek word form with the Beta code that first produced it.
type Word struct {
	ID    int64
	Latin string
	Greek string
	Gloss string
}

// Source is a provenance record for a converted text.
type Source struct {
	ID                int64
	SourceType        string
	Title             string
	Author            string
	URL               string
	Checksum          string
	Meta              string
	LastProcessedLine int
	AddedAt           time.Time
}

// Line is one converted line of a source.
type Line struct {
	ID       int64
	SourceID int64
	Index    int
	Latin    string
	Greek    string
}

// WordSource links a Word with a Source and counts its occurrences.
type WordSource struct {
	ID              int64
	WordID          int64
	SourceID        int64
	ContextLineID   int64
	OccurrenceCount int
	FirstSeenAt     time.Time
}
