// Package period maps instants to leaderboard period identifiers and back.
// Identifiers are opaque strings: "YYYY-Www" for weekly, "YYYY-MM" for
// monthly, and the literal "total" for the all-time window.
package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"stockduel/internal/domain"
)

// Total is the identifier of the unbounded all-time period.
const Total = "total"

// Current returns the period identifier containing now for the given rank
// type. Weekly numbering uses a simplified calendar-week rule, not ISO-8601:
// week = ceil((dayOfYear + weekday(Jan 1)) / 7), Sunday counted as 0.
// Historical snapshots were built with this rule, so switching to a library
// week function would shift period boundaries.
func Current(rankType domain.RankType, now time.Time) string {
	switch rankType {
	case domain.RankWeekly:
		return fmt.Sprintf("%04d-W%02d", now.Year(), weekOf(now))
	case domain.RankMonthly:
		return fmt.Sprintf("%04d-%02d", now.Year(), int(now.Month()))
	default:
		return Total
	}
}

func weekOf(t time.Time) int {
	offset := jan1Offset(t.Year(), t.Location())
	return (t.YearDay() + offset + 6) / 7
}

// jan1Offset is the weekday index of January 1st, Sunday = 0.
func jan1Offset(year int, loc *time.Location) int {
	return int(time.Date(year, time.January, 1, 0, 0, 0, 0, loc).Weekday())
}

// Range resolves a period identifier to its [start, end) bounds at local
// midnight in loc. The total period is unbounded and yields (nil, nil).
func Range(rankType domain.RankType, periodID string, loc *time.Location) (*time.Time, *time.Time, error) {
	switch rankType {
	case domain.RankWeekly:
		year, week, err := ParseWeekly(periodID)
		if err != nil {
			return nil, nil, err
		}
		offset := jan1Offset(year, loc)
		startDay := (week-1)*7 - offset + 1
		if startDay < 1 {
			startDay = 1
		}
		start := time.Date(year, time.January, startDay, 0, 0, 0, 0, loc)
		end := time.Date(year, time.January, week*7-offset+1, 0, 0, 0, 0, loc)
		return &start, &end, nil
	case domain.RankMonthly:
		year, month, err := ParseMonthly(periodID)
		if err != nil {
			return nil, nil, err
		}
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
		end := start.AddDate(0, 1, 0)
		return &start, &end, nil
	default:
		return nil, nil, nil
	}
}

// Previous returns the identifier of the immediately preceding period.
// Week 1 wraps to the prior year's week 52, January to the prior year's
// December, and total maps to itself.
func Previous(rankType domain.RankType, periodID string) (string, error) {
	switch rankType {
	case domain.RankWeekly:
		year, week, err := ParseWeekly(periodID)
		if err != nil {
			return "", err
		}
		if week <= 1 {
			return fmt.Sprintf("%04d-W52", year-1), nil
		}
		return fmt.Sprintf("%04d-W%02d", year, week-1), nil
	case domain.RankMonthly:
		year, month, err := ParseMonthly(periodID)
		if err != nil {
			return "", err
		}
		if month <= 1 {
			return fmt.Sprintf("%04d-12", year-1), nil
		}
		return fmt.Sprintf("%04d-%02d", year, month-1), nil
	default:
		return Total, nil
	}
}

// ParseWeekly splits a "YYYY-Www" identifier into year and week.
func ParseWeekly(periodID string) (int, int, error) {
	yearPart, weekPart, ok := strings.Cut(periodID, "-W")
	if !ok {
		return 0, 0, fmt.Errorf("invalid weekly period %q", periodID)
	}
	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid weekly period %q", periodID)
	}
	week, err := strconv.Atoi(weekPart)
	if err != nil || week < 1 || week > 54 {
		return 0, 0, fmt.Errorf("invalid weekly period %q", periodID)
	}
	return year, week, nil
}

// ParseMonthly splits a "YYYY-MM" identifier into year and month.
func ParseMonthly(periodID string) (int, int, error) {
	yearPart, monthPart, ok := strings.Cut(periodID, "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid monthly period %q", periodID)
	}
	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid monthly period %q", periodID)
	}
	month, err := strconv.Atoi(monthPart)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid monthly period %q", periodID)
	}
	return year, month, nil
}
