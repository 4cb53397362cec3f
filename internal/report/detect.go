package report

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxHeaderDistance is how far a header cell may drift from the expected
// column name (case and spacing aside) and still be accepted. Platforms
// occasionally rename columns between export versions.
const maxHeaderDistance = 2

// Detect sniffs which platform produced the report text.
func Detect(text string) (Platform, error) {
	if strings.Contains(text, "Campaign report") && strings.Contains(text, "Campaign results") {
		return PlatformMailerLite, nil
	}
	if looksLikeMailchimpHeader(firstLine(text)) {
		return PlatformMailchimp, nil
	}
	return "", ErrUnrecognizedFormat
}

// DetectAndParse routes text to the matching parser.
func DetectAndParse(text string) ([]Campaign, error) {
	platform, err := Detect(text)
	if err != nil {
		return nil, err
	}
	switch platform {
	case PlatformMailerLite:
		return ParseMailerLiteClassic(text)
	default:
		return ParseMailchimp(text)
	}
}

func looksLikeMailchimpHeader(line string) bool {
	cols := strings.Split(line, ",")
	hits := 0
	for _, want := range []string{"Subject", "Send Date", "Successful Deliveries", "Unique Opens"} {
		if columnIndex(cols, want) >= 0 {
			hits++
		}
	}
	return hits >= 3
}

func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i]
	}
	return text
}

// columnIndex finds the header cell matching name, exact first, then by
// edit distance within maxHeaderDistance. Returns -1 when nothing is
// close enough.
func columnIndex(header []string, name string) int {
	want := normalizeHeader(name)
	for i, h := range header {
		if normalizeHeader(h) == want {
			return i
		}
	}
	best := -1
	bestDist := maxHeaderDistance + 1
	for i, h := range header {
		d := levenshtein.ComputeDistance(normalizeHeader(h), want)
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func normalizeHeader(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), " ")
}
