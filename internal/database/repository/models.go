package repository

import "time"

// Report represents one accepted upload.
type Report struct {
	ID        string
	Filename  string
	Platform  string
	Imported  int
	Skipped   int
	CreatedAt time.Time
}

// Campaign represents a parsed campaign row. Rates are fractions.
type Campaign struct {
	ID              string
	ReportID        string
	Platform        string
	ExternalID      *string
	Subject         string
	Title           string
	SentAt          string
	Delivered       int
	Opens           int
	OpenRate        float64
	Clicks          int
	ClickRate       float64
	CTOR            float64
	Unsubscribes    int
	UnsubscribeRate float64
	SpamComplaints  int
	HardBounces     int
	HardBounceRate  float64
	SoftBounces     int
	SoftBounceRate  float64
	SourceHash      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
