package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// mailchimp column names as of the current export format.
var mailchimpColumns = []string{
	"Subject",
	"Title",
	"Unique Id",
	"Send Date",
	"Successful Deliveries",
	"Open Rate",
	"Unique Opens",
	"Click Rate",
	"Unique Clicks",
	"Hard Bounces",
	"Soft Bounces",
	"Unsubscribes",
	"Abuse Complaints",
}

// ParseMailchimp parses a Mailchimp campaign report CSV. Rows with
// unparsable numeric cells are skipped.
func ParseMailchimp(text string) ([]Campaign, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("mailchimp header: %w", err)
	}
	cols := make(map[string]int, len(mailchimpColumns))
	for _, name := range mailchimpColumns {
		cols[name] = columnIndex(header, name)
	}

	var out []Campaign
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		c, ok := mailchimpRow(rec, cols)
		if !ok {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func mailchimpRow(rec []string, cols map[string]int) (Campaign, bool) {
	cell := func(name string) string {
		i := cols[name]
		if i < 0 || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	c := Campaign{
		Platform: PlatformMailchimp,
		Subject:  cell("Subject"),
		Title:    cell("Title"),
		UniqueID: cell("Unique Id"),
		SentAt:   cell("Send Date"),
	}

	var err error
	if c.Delivered, err = parseCount(cell("Successful Deliveries")); err != nil {
		return Campaign{}, false
	}
	if c.OpenRate, err = parsePercent(cell("Open Rate")); err != nil {
		return Campaign{}, false
	}
	if c.Opens, err = parseCount(cell("Unique Opens")); err != nil {
		return Campaign{}, false
	}
	if c.ClickRate, err = parsePercent(cell("Click Rate")); err != nil {
		return Campaign{}, false
	}
	if c.Clicks, err = parseCount(cell("Unique Clicks")); err != nil {
		return Campaign{}, false
	}
	if c.HardBounces, err = parseCount(cell("Hard Bounces")); err != nil {
		return Campaign{}, false
	}
	if c.SoftBounces, err = parseCount(cell("Soft Bounces")); err != nil {
		return Campaign{}, false
	}
	if c.Unsubscribes, err = parseCount(cell("Unsubscribes")); err != nil {
		return Campaign{}, false
	}
	if c.SpamComplaints, err = parseCount(cell("Abuse Complaints")); err != nil {
		return Campaign{}, false
	}

	c.deriveRates()
	return c, true
}
