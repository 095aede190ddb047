package domain

import "time"

// Period restricts a financial report to recent records
type Period string

const (
	PeriodAll     Period = ""
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// ParsePeriod accepts "", "monthly" and "yearly".
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case PeriodAll, PeriodMonthly, PeriodYearly:
		return p, nil
	default:
		return PeriodAll, NewValidationError("period", "must be monthly or yearly")
	}
}

// Start is the first instant (UTC) of the current month or year relative to
// now. It is the zero time for PeriodAll.
func (p Period) Start(now time.Time) time.Time {
	now = now.UTC()
	switch p {
	case PeriodMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	case PeriodYearly:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Time{}
	}
}
