package fetch

import (
	"fmt"
	"strings"
	"time"
)

const (
	creditPrefix   = "Image credit: "
	apiDateLayout  = "2006-01-02"
	longDateLayout = "Monday, January 2, 2006"
)

// Classify turns a gateway result into an Outcome. It has no side effects and
// always returns the same Outcome for the same input.
func Classify(date time.Time, res Result) Outcome {
	if reason, ok := res.Reason(); ok {
		return rejected(date, reason)
	}

	rec, _ := res.Record()
	if rec.Media != MediaImage {
		return rejected(date, ReasonNotImage)
	}

	longDate, err := FormatLongDate(rec.Date)
	if err != nil {
		return systemFailure(date, err.Error())
	}

	return displayable(date, rec, Presentation{
		Title:       rec.Title,
		Credit:      CreditLabel(rec.Copyright),
		Date:        longDate,
		Explanation: rec.Explanation,
		ImagePath:   rec.ImagePath,
	})
}

// NormalizeCredit folds line breaks into spaces and drops any embedded
// "Image credit: " phrases so the caller can add its own label once.
func NormalizeCredit(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, creditPrefix, "")
	return strings.TrimSpace(s)
}

// CreditLabel returns the labelled credit line, or "" when there is no credit.
func CreditLabel(s string) string {
	credit := NormalizeCredit(s)
	if credit == "" {
		return ""
	}
	return creditPrefix + credit
}

// FormatLongDate reformats a YYYY-MM-DD date into its long human form.
func FormatLongDate(s string) (string, error) {
	t, err := time.Parse(apiDateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("parse record date %q: %w", s, err)
	}
	return t.Format(longDateLayout), nil
}
