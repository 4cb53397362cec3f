package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// MailerLite "classic" exports are sectioned reports: a preamble of
// key/value lines under "Campaign report", then a "Campaign results"
// section whose first row is the column header.
var mailerliteColumns = []string{
	"Campaign name",
	"Subject",
	"Sent at",
	"Recipients",
	"Opened",
	"Open rate",
	"Clicked",
	"Click rate",
	"Unsubscribed",
	"Bounced",
	"Marked as spam",
}

// ParseMailerLiteClassic parses a MailerLite classic campaign report.
func ParseMailerLiteClassic(text string) ([]Campaign, error) {
	section, err := campaignResultsSection(text)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(strings.NewReader(section))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("mailerlite header: %w", err)
	}
	cols := make(map[string]int, len(mailerliteColumns))
	for _, name := range mailerliteColumns {
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
		c, ok := mailerliteRow(rec, cols)
		if !ok {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// campaignResultsSection cuts the text between the "Campaign results"
// marker line and the next blank line (or EOF).
func campaignResultsSection(text string) (string, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	start := -1
	for i, line := range lines {
		first := strings.TrimSpace(strings.SplitN(line, ",", 2)[0])
		if strings.EqualFold(first, "Campaign results") {
			start = i + 1
			break
		}
	}
	if start < 0 || start >= len(lines) {
		return "", fmt.Errorf("mailerlite: %w", ErrUnrecognizedFormat)
	}
	end := len(lines)
	for i := start; i < len(lines); i++ {
		if strings.TrimSpace(strings.Trim(lines[i], ", ")) == "" {
			end = i
			break
		}
	}
	return strings.Join(lines[start:end], "\n"), nil
}

func mailerliteRow(rec []string, cols map[string]int) (Campaign, bool) {
	cell := func(name string) string {
		i := cols[name]
		if i < 0 || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	c := Campaign{
		Platform: PlatformMailerLite,
		Subject:  cell("Subject"),
		Title:    cell("Campaign name"),
		SentAt:   cell("Sent at"),
	}

	recipients, err := parseCount(cell("Recipients"))
	if err != nil {
		return Campaign{}, false
	}
	bounced, err := parseCount(cell("Bounced"))
	if err != nil {
		return Campaign{}, false
	}
	// MailerLite reports recipients and a single bounce count; delivered
	// is the difference.
	c.Delivered = recipients - bounced
	if c.Delivered < 0 {
		c.Delivered = 0
	}
	c.HardBounces = bounced

	if c.Opens, err = parseCount(cell("Opened")); err != nil {
		return Campaign{}, false
	}
	if c.OpenRate, err = parsePercent(cell("Open rate")); err != nil {
		return Campaign{}, false
	}
	if c.Clicks, err = parseCount(cell("Clicked")); err != nil {
		return Campaign{}, false
	}
	if c.ClickRate, err = parsePercent(cell("Click rate")); err != nil {
		return Campaign{}, false
	}
	if c.Unsubscribes, err = parseCount(cell("Unsubscribed")); err != nil {
		return Campaign{}, false
	}
	if c.SpamComplaints, err = parseCount(cell("Marked as spam")); err != nil {
		return Campaign{}, false
	}

	c.deriveRates()
	return c, true
}
