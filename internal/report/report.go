// Package report parses email-platform campaign report CSVs into a
// platform-neutral row format. Parsers are tolerant: rows that fail to
// parse are skipped, never fatal, so one bad export line cannot sink a
// whole upload.
package report

import (
	"errors"
	"strconv"
	"strings"
)

// Platform identifies the exporting email platform.
type Platform string

const (
	PlatformMailchimp  Platform = "mailchimp"
	PlatformMailerLite Platform = "mailerlite"
)

// ErrUnrecognizedFormat is returned when no parser claims the input.
var ErrUnrecognizedFormat = errors.New("unsupported or unrecognized report format")

// Campaign is one parsed campaign row. Rates are fractions (0.123, not
// 12.3); derived rates are guarded against zero denominators.
type Campaign struct {
	Platform        Platform
	Subject         string
	Title           string
	UniqueID        string
	SentAt          string // raw platform timestamp, stored verbatim
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
}

// deriveRates fills in the per-delivered and click-to-open rates.
func (c *Campaign) deriveRates() {
	if c.Delivered > 0 {
		c.HardBounceRate = float64(c.HardBounces) / float64(c.Delivered)
		c.SoftBounceRate = float64(c.SoftBounces) / float64(c.Delivered)
		c.UnsubscribeRate = float64(c.Unsubscribes) / float64(c.Delivered)
	}
	if c.Opens > 0 {
		c.CTOR = float64(c.Clicks) / float64(c.Opens)
	}
}

// parsePercent converts "12.3%" (or "12.3") to 0.123. Empty input is 0.
func parsePercent(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return f / 100, nil
}

// parseCount converts an integer cell, tolerating thousands separators.
// Empty input is 0.
func parseCount(s string) (int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
