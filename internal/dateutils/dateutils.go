// Package dateutils parses and formats the calendar dates found on club
// billing statements. Time-of-day components are dropped.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayoutISO is the layout required by the expense ledger (YYYY-MM-DD).
const DateLayoutISO = "2006-01-02"

// statementFormats are the layouts observed on statements and in extraction
// output, tried in order. US layouts first since the statements are US-issued.
var statementFormats = []string{
	DateLayoutISO,
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"01-02-2006",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02 Jan 2006",
}

var spaceRe = regexp.MustCompile(`\s+`)

// CleanDateString trims and collapses whitespace in a raw date string.
func CleanDateString(dateStr string) string {
	return spaceRe.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ParseDateString parses a date string using the known statement formats and
// returns it truncated to a calendar date (midnight UTC).
func ParseDateString(dateStr string) (time.Time, error) {
	cleanDate := CleanDateString(dateStr)
	if cleanDate == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	for _, format := range statementFormats {
		if t, err := time.Parse(format, cleanDate); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// ToISODate formats a time.Time as YYYY-MM-DD.
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}
