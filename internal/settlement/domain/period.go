package domain

import (
	"errors"
	"time"
)

// PeriodBounds resolves (year, index) into the inclusive [start, end] window
// of the period: ISO week Monday–Sunday for weekly, calendar month for
// monthly. End sits on the last second of the period so timestamp columns
// compare inclusively.
func PeriodBounds(periodType PeriodType, year, index int) (time.Time, time.Time, error) {
	switch periodType {
	case PeriodWeekly:
		if index < 1 || index > 53 {
			return time.Time{}, time.Time{}, ErrInvalidPeriod
		}
		start := isoWeekStart(year, index)
		if wy, ww := start.ISOWeek(); wy != year || ww != index {
			return time.Time{}, time.Time{}, ErrInvalidPeriod
		}
		return start, start.AddDate(0, 0, 7).Add(-time.Second), nil
	case PeriodMonthly:
		if index < 1 || index > 12 {
			return time.Time{}, time.Time{}, ErrInvalidPeriod
		}
		start := time.Date(year, time.Month(index), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0).Add(-time.Second), nil
	default:
		return time.Time{}, time.Time{}, ErrInvalidPeriod
	}
}

// PeriodFor returns the period type bounds containing t.
func PeriodFor(periodType PeriodType, t time.Time) (int, int, error) {
	t = t.UTC()
	switch periodType {
	case PeriodWeekly:
		year, week := t.ISOWeek()
		return year, week, nil
	case PeriodMonthly:
		return t.Year(), int(t.Month()), nil
	default:
		return 0, 0, ErrInvalidPeriod
	}
}

// isoWeekStart finds the Monday of the given ISO week. January 4th always
// falls in week 1.
func isoWeekStart(year, week int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	week1Monday := jan4.AddDate(0, 0, 1-weekday)
	return week1Monday.AddDate(0, 0, (week-1)*7)
}

var (
	ErrInvalidPeriod       = errors.New("invalid_period")
	ErrNotFound            = errors.New("settlement_not_found")
	ErrDuplicateSettlement = errors.New("duplicate_settlement")
	ErrEmptyPeriod         = errors.New("empty_period")
	ErrInvalidDriver       = errors.New("invalid_driver")
	ErrUnknownDriver       = errors.New("unknown_driver")
)
