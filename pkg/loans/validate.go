package loans

import (
	"time"

	"github.com/openshelf/openshelf/pkg/errcodes"
)

// MaxRenewalDays is how far ahead a due date may be pushed.
const MaxRenewalDays = 28

// ProposedRenewalWeeks is the default renewal window offered to staff.
const ProposedRenewalWeeks = 3

// Renewal date failures. Comparable with errors.Is.
var (
	ErrRenewalInPast      = errcodes.ValidationError("Invalid date - renewal in past")
	ErrRenewalTooFarAhead = errcodes.ValidationError("Invalid date - renewal more than 4 weeks ahead")
)

// midnightUTC truncates a time to its date at midnight UTC.
func midnightUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidateRenewalDate checks a candidate due date against today. The date
// must fall in [today, today+28d], both ends inclusive. Returns the candidate
// normalized to midnight UTC. Date-granular: time-of-day never matters.
func ValidateRenewalDate(candidate, today time.Time) (time.Time, error) {
	date := midnightUTC(candidate)
	start := midnightUTC(today)
	end := start.AddDate(0, 0, MaxRenewalDays)

	if date.Before(start) {
		return time.Time{}, ErrRenewalInPast
	}
	if date.After(end) {
		return time.Time{}, ErrRenewalTooFarAhead
	}
	return date, nil
}

// ProposedRenewalDate is the default date offered for a renewal: three weeks
// from today, at midnight UTC.
func ProposedRenewalDate(today time.Time) time.Time {
	return midnightUTC(today).AddDate(0, 0, 7*ProposedRenewalWeeks)
}
