package field

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// dateLayouts is the fixed parse priority for date fields. Numeric M/D/Y
// forms sit before the two-digit-year and ISO forms so that an ambiguous
// token is not misread as a textual-month date.
var dateLayouts = []string{
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"January 2 2006",
	"1/2/2006",
	"1-2-2006",
	"1/2/06",
	"1-2-06",
	"2006-1-2",
	"2 Jan 2006",
	"2 January 2006",
}

var (
	currencyStripper = strings.NewReplacer("$", "", ",", "")
	digitRun         = regexp.MustCompile(`\d+`)
)

// Parse converts a raw extracted string into its typed value: time.Time for
// dates, float64 for currency and number, int for integer. The second return
// is false when the raw text cannot be parsed as the semantic type; that is
// reported as a validation issue, never an error.
func Parse(raw string, semantic SemanticType) (any, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}

	switch semantic {
	case TypeCurrency, TypeNumber:
		clean := strings.TrimSpace(currencyStripper.Replace(raw))
		v, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			return nil, false
		}
		return v, true

	case TypeInteger:
		m := digitRun.FindString(raw)
		if m == "" {
			return nil, false
		}
		v, err := strconv.Atoi(m)
		if err != nil {
			return nil, false
		}
		return v, true

	case TypeDate:
		if t, ok := ParseDate(raw); ok {
			return t, true
		}
		return nil, false
	}

	return nil, false
}

// ParseDate tries the fixed layout priority, then a fuzzy fallback parser.
// The result is truncated to a calendar date in UTC.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return toDate(t), true
		}
	}
	if t, err := dateparse.ParseAny(raw); err == nil {
		return toDate(t), true
	}
	return time.Time{}, false
}

func toDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
