package period

import (
	"testing"
	"time"

	"stockduel/internal/domain"
)

func TestCurrentMonthly(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	if got := Current(domain.RankMonthly, now); got != "2024-03" {
		t.Fatalf("expected 2024-03, got %s", got)
	}
}

func TestCurrentWeekly(t *testing.T) {
	t.Parallel()
	// Jan 1 2024 is a Monday, so the Jan 1 offset is 1.
	cases := []struct {
		day  time.Time
		want string
	}{
		{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "2024-W01"},
		{time.Date(2024, 1, 6, 23, 59, 0, 0, time.UTC), "2024-W01"},
		{time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC), "2024-W02"},
		{time.Date(2024, 12, 31, 12, 0, 0, 0, time.UTC), "2024-W53"},
		// Jan 1 2023 is a Sunday, offset 0: week 1 runs a full seven days.
		{time.Date(2023, 1, 7, 0, 0, 0, 0, time.UTC), "2023-W01"},
		{time.Date(2023, 1, 8, 0, 0, 0, 0, time.UTC), "2023-W02"},
	}
	for _, c := range cases {
		if got := Current(domain.RankWeekly, c.day); got != c.want {
			t.Errorf("%s: expected %s, got %s", c.day.Format("2006-01-02"), c.want, got)
		}
	}
}

func TestCurrentTotal(t *testing.T) {
	t.Parallel()
	if got := Current(domain.RankTotal, time.Now()); got != Total {
		t.Fatalf("expected literal total, got %s", got)
	}
}

func TestPrevious(t *testing.T) {
	t.Parallel()
	cases := []struct {
		rankType domain.RankType
		period   string
		want     string
	}{
		{domain.RankMonthly, "2024-01", "2023-12"},
		{domain.RankMonthly, "2024-07", "2024-06"},
		{domain.RankWeekly, "2024-W01", "2023-W52"},
		{domain.RankWeekly, "2024-W30", "2024-W29"},
		{domain.RankTotal, Total, Total},
	}
	for _, c := range cases {
		got, err := Previous(c.rankType, c.period)
		if err != nil {
			t.Fatalf("%s %s: unexpected error: %v", c.rankType, c.period, err)
		}
		if got != c.want {
			t.Errorf("%s %s: expected %s, got %s", c.rankType, c.period, c.want, got)
		}
	}
}

func TestRangeMonthly(t *testing.T) {
	t.Parallel()
	start, end, err := Range(domain.RankMonthly, "2024-02", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !start.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected start %v", start)
	}
	if !end.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected end %v", end)
	}
}

func TestRangeWeekly(t *testing.T) {
	t.Parallel()
	// Week 1 of 2024 is clamped to Jan 1 and runs six days.
	start, end, err := Range(domain.RankWeekly, "2024-W01", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !start.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected week 1 start %v", start)
	}
	if !end.Equal(time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected week 1 end %v", end)
	}

	start, end, err = Range(domain.RankWeekly, "2024-W02", time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !start.Equal(time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected week 2 start %v", start)
	}
	if !end.Equal(time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected week 2 end %v", end)
	}
}

func TestRangeTotalUnbounded(t *testing.T) {
	t.Parallel()
	start, end, err := Range(domain.RankTotal, Total, time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start != nil || end != nil {
		t.Fatalf("total range should be unbounded, got %v..%v", start, end)
	}
}

func TestRangeContainsCurrent(t *testing.T) {
	t.Parallel()
	instants := []time.Time{
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 29, 15, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC),
		time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC),
	}
	for _, now := range instants {
		for _, rt := range []domain.RankType{domain.RankWeekly, domain.RankMonthly} {
			id := Current(rt, now)
			start, end, err := Range(rt, id, time.UTC)
			if err != nil {
				t.Fatalf("%s %s: %v", rt, id, err)
			}
			if now.Before(*start) || !now.Before(*end) {
				t.Errorf("%s: %v not inside %s [%v, %v)", rt, now, id, start, end)
			}
		}
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	t.Parallel()
	if _, _, err := ParseWeekly("2024-13"); err == nil {
		t.Error("weekly parse should reject a monthly identifier")
	}
	if _, _, err := ParseWeekly("2024-W99"); err == nil {
		t.Error("weekly parse should reject an out-of-range week")
	}
	if _, _, err := ParseMonthly("2024-W02"); err == nil {
		t.Error("monthly parse should reject a weekly identifier")
	}
	if _, _, err := ParseMonthly("2024-00"); err == nil {
		t.Error("monthly parse should reject month zero")
	}
	if _, _, err := Range(domain.RankWeekly, "total", time.UTC); err == nil {
		t.Error("weekly range should reject the total identifier")
	}
}
