package analyzer

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are the date spellings accepted as parseable, tried in order.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	time.RFC1123,
	time.RFC1123Z,
}

// ParseDate parses s with the first matching accepted layout.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CheckDataQuality reports counts of suspicious records. The report is
// informational; analysis proceeds on the records as given.
func CheckDataQuality(records []Record) []string {
	var missingAmounts, negativeAmounts, missingVendors, invalidDates int
	for _, r := range records {
		if r.Amount == 0 {
			missingAmounts++
		}
		if r.Amount < 0 {
			negativeAmounts++
		}
		if strings.TrimSpace(r.Vendor) == "" {
			missingVendors++
		}
		if r.Date != "" {
			if _, ok := ParseDate(r.Date); !ok {
				invalidDates++
			}
		}
	}

	issues := make([]string, 0)
	if missingAmounts > 0 {
		issues = append(issues, fmt.Sprintf("%d records missing amounts", missingAmounts))
	}
	if negativeAmounts > 0 {
		issues = append(issues, fmt.Sprintf("%d records with negative amounts", negativeAmounts))
	}
	if missingVendors > 0 {
		issues = append(issues, fmt.Sprintf("%d records missing vendor names", missingVendors))
	}
	if invalidDates > 0 {
		issues = append(issues, fmt.Sprintf("%d records with invalid dates", invalidDates))
	}
	return issues
}
